package service

import (
	"context"
	"strings"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
)

const resourceUser = "user"

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=ADMIN EDITOR"`
}

type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN EDITOR"`
	IsActive *bool   `json:"is_active"`
}

// UserService manages panel accounts. At least one active admin always remains.
type UserService struct {
	repo *repository.UserRepository
	pub  *Publisher
}

func NewUserService(repo *repository.UserRepository, pub *Publisher) *UserService {
	return &UserService{repo: repo, pub: pub}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(&in).Err(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(in.Email); err == nil {
		return nil, fieldError("email", "is already registered")
	} else if storeErr(err) != ErrNotFound {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: in.Email, Name: in.Name, PasswordHash: hash, Role: in.Role, IsActive: true}
	if err := s.repo.Create(u); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceUser, ActionCreate, u.ID)
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	if err := validateStruct(&in).Err(); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	self := ActorFrom(ctx).UserID == id
	demoting := in.Role != nil && *in.Role != domain.RoleAdmin
	disabling := in.IsActive != nil && !*in.IsActive
	if self && disabling {
		return nil, fieldError("is_active", "cannot disable your own account")
	}
	if u.Role == domain.RoleAdmin && u.IsActive && (demoting || disabling) {
		if err := s.keepAnAdmin(); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateFields(id, updates); err != nil {
			return nil, storeErr(err)
		}
		s.pub.Changed(ctx, resourceUser, ActionUpdate, id)
	}
	return s.Get(id)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if ActorFrom(ctx).UserID == id {
		return fieldError("id", "cannot delete your own account")
	}
	u, err := s.repo.GetByID(id)
	if err != nil {
		return storeErr(err)
	}
	if u.Role == domain.RoleAdmin && u.IsActive {
		if err := s.keepAnAdmin(); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceUser, ActionDelete, id)
	return nil
}

// keepAnAdmin fails when the account about to lose admin rights is the last one.
func (s *UserService) keepAnAdmin() error {
	n, err := s.repo.CountByRole(domain.RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return fieldError("role", "the last active admin cannot be removed")
	}
	return nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	u, err := s.repo.GetByID(id)
	return u, storeErr(err)
}

func (s *UserService) List(search, role string, page, limit int) (Page[models.User], error) {
	f := repository.ListFilter{Page: page, Limit: limit}.Normalized()
	list, total, err := s.repo.List(strings.TrimSpace(search), role, f.Page, f.Limit)
	if err != nil {
		return Page[models.User]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}
