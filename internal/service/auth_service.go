package service

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"corpsite/config"
	"corpsite/internal/auth"
	"corpsite/internal/models"
	"corpsite/internal/repository"
)

const minPasswordLen = 8

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
	now      func() time.Time
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, now: time.Now}
}

// Session is the login response of the admin panel.
type Session struct {
	User *models.User `json:"user"`
	*auth.TokenPair
}

func (s *AuthService) session(u *models.User) (*Session, error) {
	now := s.now()
	if err := s.userRepo.TouchLogin(u.ID, now); err != nil {
		return nil, err
	}
	u.LastLoginAt = &now
	pair, err := auth.GeneratePair(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, TokenPair: pair}, nil
}

func (s *AuthService) Login(email, password string) (*Session, error) {
	u, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCreds
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCreds
	}
	if !u.IsActive {
		return nil, ErrForbidden
	}
	return s.session(u)
}

// LoginWithGoogle signs in an existing panel account by its Google id or,
// on first use, by its email, which links the Google id. Unknown emails are
// rejected since panel accounts are only created by admins.
func (s *AuthService) LoginWithGoogle(googleID, email, avatarURL string) (*Session, error) {
	u, err := s.userRepo.GetByGoogleID(googleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if u == nil {
		u, err = s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		if err != nil {
			return nil, err
		}
		gid := googleID
		u.GoogleID = &gid
		if avatarURL != "" && u.AvatarURL == "" {
			u.AvatarURL = avatarURL
		}
		if err := s.userRepo.Update(u); err != nil {
			return nil, storeErr(err)
		}
	}
	if !u.IsActive {
		return nil, ErrForbidden
	}
	return s.session(u)
}

// ChangePassword updates the user's password. Requires current password
// verification unless the account has none yet (Google only).
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fieldError("new_password", "must be at least 8 characters")
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return storeErr(err)
	}
	if u.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
			return fieldError("current_password", "is incorrect")
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateFields(userID, map[string]any{"password_hash": string(hash)})
}

func (s *AuthService) RefreshToken(refreshToken string) (*auth.TokenPair, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrForbidden
	}
	return auth.GeneratePair(&s.cfg.JWT, u.ID, u.Email, u.Role)
}

func (s *AuthService) Me(userID uint) (*models.User, error) {
	u, err := s.userRepo.GetByID(userID)
	return u, storeErr(err)
}

// SetFCMToken registers the device that receives push notifications; an
// empty token unregisters it.
func (s *AuthService) SetFCMToken(userID uint, token string) error {
	return s.userRepo.UpdateFields(userID, map[string]any{"fcm_token": strings.TrimSpace(token)})
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}
