package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/observability"
	"corpsite/internal/repository"
	"corpsite/pkg/mailer"
)

const (
	resourceContact = "contact_message"
	mailTimeout     = 20 * time.Second
)

type ContactInput struct {
	FullName  string `json:"full_name" validate:"required,min=2,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Subject   string `json:"subject" validate:"max=255"`
	Message   string `json:"message" validate:"required,min=10,max=5000"`
	ServiceID *uint  `json:"service_id" validate:"omitempty,gt=0"`
}

// ContactSettings are the static parts of contact mail.
type ContactSettings struct {
	SiteName        string
	SiteURL         string
	AdminURL        string
	AdminRecipients []string
}

// ContactService accepts contact form submissions and serves them to admins.
type ContactService struct {
	repo     *repository.ContactRepository
	services *repository.ServiceRepository
	settings *SettingsService
	mail     mailer.Sender
	notify   *NotificationService
	pub      *Publisher
	cfg      ContactSettings
}

func NewContactService(
	repo *repository.ContactRepository,
	services *repository.ServiceRepository,
	settings *SettingsService,
	mail mailer.Sender,
	notify *NotificationService,
	pub *Publisher,
	cfg ContactSettings,
) *ContactService {
	return &ContactService{repo: repo, services: services, settings: settings, mail: mail, notify: notify, pub: pub, cfg: cfg}
}

// Submit stores the message and then runs the mail and notification side
// effects. Side effects never undo the stored message.
func (s *ContactService) Submit(ctx context.Context, locale string, in ContactInput, v Visitor) (*models.ContactMessage, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := validateStruct(&in).Err(); err != nil {
		return nil, err
	}
	if !domain.IsLocale(locale) {
		locale = domain.DefaultLocale
	}
	var serviceName string
	if in.ServiceID != nil {
		svc, err := s.services.GetByID(ctx, *in.ServiceID)
		if err != nil {
			if storeErr(err) == ErrNotFound {
				return nil, fieldError("service_id", "does not exist")
			}
			return nil, err
		}
		if tr, ok := models.PickTranslation(svc.Translations, locale); ok {
			serviceName = tr.Title
		}
	}

	m := &models.ContactMessage{
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		ServiceID: in.ServiceID,
		Locale:    locale,
		IP:        v.IP,
		UserAgent: truncateRunes(v.UserAgent, 512),
		Status:    domain.ContactStatusNew,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
	defer cancel()
	data := mailer.ContactData{
		SiteName:    s.settings.SiteName(ctx, s.cfg.SiteName),
		SiteURL:     s.cfg.SiteURL,
		FullName:    m.FullName,
		Email:       m.Email,
		Phone:       m.Phone,
		Subject:     m.Subject,
		Message:     m.Message,
		ServiceName: serviceName,
		Locale:      locale,
		IP:          m.IP,
		CreatedAt:   m.CreatedAt,
		AdminURL:    s.cfg.AdminURL,
	}
	m.EmailSent = s.mailAdmins(ctx, m.ID, data)
	if m.EmailSent {
		if err := s.repo.SetEmailSent(ctx, m.ID, true); err != nil {
			log.Ctx(ctx).Warn().Err(err).Uint("contact_id", m.ID).Msg("mark contact email sent failed")
		}
	}
	s.replyTo(ctx, m.ID, data)

	if s.notify != nil {
		err := s.notify.NotifyAdmins(ctx, domain.NotificationContactMessage, "New contact message", m.FullName+": "+truncateRunes(m.Message, 120),
			map[string]any{"contact_id": m.ID})
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Uint("contact_id", m.ID).Msg("admin notification failed")
		}
	}
	observability.ObserveContact(locale, m.EmailSent)
	return m, nil
}

func (s *ContactService) recipients(ctx context.Context) []string {
	if r := s.settings.ContactRecipients(ctx); len(r) > 0 {
		return r
	}
	return s.cfg.AdminRecipients
}

func (s *ContactService) mailAdmins(ctx context.Context, id uint, d mailer.ContactData) bool {
	to := s.recipients(ctx)
	if len(to) == 0 {
		log.Ctx(ctx).Warn().Uint("contact_id", id).Msg("no contact recipients configured")
		return false
	}
	msg, err := mailer.ContactAdminMessage(to, d)
	if err == nil {
		err = s.mail.Send(ctx, msg)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Uint("contact_id", id).Msg("contact admin mail failed")
		return false
	}
	return true
}

func (s *ContactService) replyTo(ctx context.Context, id uint, d mailer.ContactData) {
	msg, err := mailer.ContactReplyMessage(d)
	if err == nil {
		err = s.mail.Send(ctx, msg)
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint("contact_id", id).Msg("contact auto-reply failed")
	}
}

type ContactListParams struct {
	Status string
	Search string
	Page   int
	Limit  int
}

func (s *ContactService) List(ctx context.Context, p ContactListParams) (Page[models.ContactMessage], error) {
	if p.Status != "" && !validContactStatus(p.Status) {
		return Page[models.ContactMessage]{}, fieldError("status", "must be one of NEW READ ARCHIVED")
	}
	f := repository.ListFilter{Page: p.Page, Limit: p.Limit}.Normalized()
	list, total, err := s.repo.List(ctx, repository.ContactFilter{
		Status: p.Status,
		Search: strings.TrimSpace(p.Search),
		Page:   f.Page,
		Limit:  f.Limit,
	})
	if err != nil {
		return Page[models.ContactMessage]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}

// Get returns a message and marks a NEW one as READ.
func (s *ContactService) Get(ctx context.Context, id uint) (*models.ContactMessage, error) {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return nil, storeErr(err)
	}
	m, err := s.repo.GetByID(ctx, id)
	return m, storeErr(err)
}

func (s *ContactService) SetStatus(ctx context.Context, id uint, status string) (*models.ContactMessage, error) {
	if !validContactStatus(status) {
		return nil, fieldError("status", "must be one of NEW READ ARCHIVED")
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceContact, ActionUpdate, id)
	m, err := s.repo.GetByID(ctx, id)
	return m, storeErr(err)
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceContact, ActionDelete, id)
	return nil
}

func validContactStatus(s string) bool {
	switch s {
	case domain.ContactStatusNew, domain.ContactStatusRead, domain.ContactStatusArchived:
		return true
	}
	return false
}
