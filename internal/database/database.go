package database

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"corpsite/config"
	"corpsite/internal/domain"
	"corpsite/internal/models"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql", "":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Models lists every migrated table.
func Models() []any {
	return []any{
		&models.User{},
		&models.SystemSetting{},
		&models.SeoMeta{},
		&models.Blog{},
		&models.BlogTranslation{},
		&models.BlogView{},
		&models.Service{},
		&models.ServiceTranslation{},
		&models.Employee{},
		&models.EmployeeTranslation{},
		&models.Testimonial{},
		&models.TestimonialTranslation{},
		&models.Branch{},
		&models.BranchTranslation{},
		&models.Slider{},
		&models.SliderTranslation{},
		&models.Statistic{},
		&models.StatisticTranslation{},
		&models.YoutubeMedia{},
		&models.YoutubeMediaTranslation{},
		&models.ContactMessage{},
		&models.Notification{},
		&models.AuditLog{},
	}
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// SeedAdmin creates the configured admin when no admin account exists yet.
func SeedAdmin(db *gorm.DB, cfg *config.AdminSeedConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}
	u := &models.User{Email: cfg.Email, Name: name, PasswordHash: string(hash), Role: domain.RoleAdmin, IsActive: true}
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	log.Info().Str("email", cfg.Email).Msg("seeded admin account")
	return nil
}

// SeedSettings inserts default settings that don't exist yet.
func SeedSettings(db *gorm.DB) error {
	rows := make([]models.SystemSetting, 0, len(domain.DefaultSettings))
	for k, v := range domain.DefaultSettings {
		rows = append(rows, models.SystemSetting{Key: k, Value: v})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
