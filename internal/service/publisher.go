package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"corpsite/internal/cache"
	"corpsite/internal/models"
	"corpsite/internal/repository"
)

// Feed receives live events for connected admin sessions.
type Feed interface {
	Publish(eventType string, payload any)
}

// Change is a completed mutation.
type Change struct {
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	ID       uint      `json:"id,omitempty"`
	UserID   uint      `json:"user_id,omitempty"`
	At       time.Time `json:"at"`
}

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionReorder = "reorder"
)

// Publisher runs the after-write steps shared by every mutation: cache
// revalidation, the audit log and the admin live feed. Failures are logged and
// never undo the write.
type Publisher struct {
	cache cache.Store
	audit *repository.AuditLogRepository
	feed  Feed
}

func NewPublisher(store cache.Store, audit *repository.AuditLogRepository, feed Feed) *Publisher {
	if store == nil {
		store = cache.NopStore{}
	}
	return &Publisher{cache: store, audit: audit, feed: feed}
}

// Changed records a mutation of resource and drops cached pages carrying tags.
func (p *Publisher) Changed(ctx context.Context, resource, action string, id uint, tags ...string) {
	ctx = context.WithoutCancel(ctx)
	actor := ActorFrom(ctx)
	p.Revalidate(ctx, tags...)

	if p.audit != nil {
		entry := &models.AuditLog{
			Action:    action,
			Resource:  resource,
			IP:        actor.IP,
			UserAgent: actor.UserAgent,
		}
		if id != 0 {
			entry.ResourceID = strconv.FormatUint(uint64(id), 10)
		}
		if actor.UserID != 0 {
			uid := actor.UserID
			entry.UserID = &uid
		}
		if len(tags) > 0 {
			b, _ := json.Marshal(map[string]any{"tags": tags})
			entry.Metadata = string(b)
		}
		if err := p.audit.Create(ctx, entry); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("resource", resource).Msg("audit log write failed")
		}
	}
	p.Publish("content."+action, Change{Resource: resource, Action: action, ID: id, UserID: actor.UserID, At: time.Now().UTC()})
}

// Revalidate drops cached pages under tags.
func (p *Publisher) Revalidate(ctx context.Context, tags ...string) {
	if len(tags) == 0 {
		return
	}
	if err := p.cache.Revalidate(context.WithoutCancel(ctx), tags...); err != nil {
		log.Ctx(ctx).Warn().Err(err).Strs("tags", tags).Msg("cache revalidation failed")
	}
}

// Publish forwards an event to the admin live feed when one is attached.
func (p *Publisher) Publish(eventType string, payload any) {
	if p.feed != nil {
		p.feed.Publish(eventType, payload)
	}
}
