package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"corpsite/internal/domain"
	"corpsite/internal/repository"
)

const (
	resourceSettings = "settings"
	maintenanceTTL   = 5 * time.Second
	maxSettingValue  = 10000
)

// editableSettings are the keys admins may write, with a value check each.
var editableSettings = map[string]func(string) bool{
	domain.SettingMaintenanceMode:  isBool,
	domain.SettingSiteName:         nonEmpty,
	domain.SettingContactEmail:     optionalEmail,
	domain.SettingContactPhone:     optionalPhone,
	domain.SettingContactRecipient: emailList,
	domain.SettingSocialFacebook:   optionalURL,
	domain.SettingSocialInstagram:  optionalURL,
	domain.SettingSocialLinkedIn:   optionalURL,
	domain.SettingSocialYoutube:    optionalURL,
}

// SettingsService reads and writes site settings and memoizes the
// maintenance flag for the middleware.
type SettingsService struct {
	repo *repository.SettingRepository
	pub  *Publisher

	mu          sync.Mutex
	maintenance bool
	checkedAt   time.Time
	now         func() time.Time
}

func NewSettingsService(repo *repository.SettingRepository, pub *Publisher) *SettingsService {
	return &SettingsService{repo: repo, pub: pub, now: time.Now}
}

func (s *SettingsService) Public(ctx context.Context) (map[string]string, error) {
	return s.repo.GetMany(ctx, domain.PublicSettingKeys)
}

func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, st := range list {
		out[st.Key] = st.Value
	}
	return out, nil
}

// Get returns a single value; missing keys yield "".
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return v, err
}

// Update writes values atomically. Every cached page is dropped since
// settings appear on all of them.
func (s *SettingsService) Update(ctx context.Context, values map[string]string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, fieldError("settings", "is required")
	}
	ve := &ValidationError{}
	clean := make(map[string]string, len(values))
	for k, v := range values {
		v = strings.TrimSpace(v)
		check, ok := editableSettings[k]
		switch {
		case !ok:
			ve.Add(k, "is not a known setting")
		case len(v) > maxSettingValue:
			ve.Add(k, "is too long")
		case !check(v):
			ve.Add(k, "is invalid")
		default:
			clean[k] = v
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.SetMany(ctx, clean); err != nil {
		return nil, err
	}
	if v, ok := clean[domain.SettingMaintenanceMode]; ok {
		s.mu.Lock()
		s.maintenance = v == "true"
		s.checkedAt = s.now()
		s.mu.Unlock()
	}
	s.pub.Changed(ctx, resourceSettings, ActionUpdate, 0, domain.TagAll)
	return s.All(ctx)
}

// Maintenance reports whether the public site is switched off. The value is
// read at most once per maintenanceTTL; read errors keep the last value.
// The lock is not held during the read.
func (s *SettingsService) Maintenance(ctx context.Context) bool {
	s.mu.Lock()
	now := s.now()
	if !s.checkedAt.IsZero() && now.Sub(s.checkedAt) < maintenanceTTL {
		defer s.mu.Unlock()
		return s.maintenance
	}
	last := s.maintenance
	s.mu.Unlock()

	v, err := s.Get(ctx, domain.SettingMaintenanceMode)
	if err != nil {
		return last
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// An Update that landed during the read wins.
	if s.checkedAt.After(now) {
		return s.maintenance
	}
	s.maintenance = v == "true"
	s.checkedAt = now
	return s.maintenance
}

// ContactRecipients returns the admin addresses stored in settings.
func (s *SettingsService) ContactRecipients(ctx context.Context) []string {
	v, err := s.Get(ctx, domain.SettingContactRecipient)
	if err != nil {
		return nil
	}
	return splitEmails(v)
}

func (s *SettingsService) SiteName(ctx context.Context, fallback string) string {
	if v, err := s.Get(ctx, domain.SettingSiteName); err == nil && v != "" {
		return v
	}
	return fallback
}

func isBool(v string) bool { return v == "true" || v == "false" }

func nonEmpty(v string) bool { return v != "" }

func optionalEmail(v string) bool {
	return v == "" || validate.Var(v, "email") == nil
}

func optionalPhone(v string) bool {
	return v == "" || phonePattern.MatchString(v)
}

func optionalURL(v string) bool {
	return v == "" || validate.Var(v, "url") == nil
}

func emailList(v string) bool {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if validate.Var(p, "email") != nil {
			return false
		}
	}
	return true
}

func splitEmails(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
