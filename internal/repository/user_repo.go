package repository

import (
	"time"

	"gorm.io/gorm"

	"corpsite/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	err := r.db.Where("google_id = ?", googleID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// UpdateFields updates specific columns on a user.
func (r *UserRepository) UpdateFields(id uint, updates map[string]any) error {
	return updated(r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates))
}

func (r *UserRepository) TouchLogin(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}

// Delete soft-deletes the user and frees its email and Google id for reuse.
func (r *UserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&u).UpdateColumns(map[string]any{
			"email":     truncate("deleted:"+time.Now().UTC().Format("20060102150405")+":"+u.Email, 255),
			"google_id": nil,
		}).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	})
}

// List returns users with search, role filter, and pagination.
func (r *UserRepository) List(search, role string, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if search != "" {
		q = q.Where("name LIKE ? OR email LIKE ?", likePattern(search), likePattern(search))
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := ListFilter{Page: page, Limit: limit}.apply(q).Order("created_at DESC").Find(&users).Error
	return users, total, err
}

// ListActive returns every active account; all of them receive contact notifications.
func (r *UserRepository) ListActive() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) CountByRole(role string) (int64, error) {
	var c int64
	err := r.db.Model(&models.User{}).Where("role = ? AND is_active = ?", role, true).Count(&c).Error
	return c, err
}
