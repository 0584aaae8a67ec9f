package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"corpsite/internal/models"
	"corpsite/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	push     Pusher
	feed     Feed
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, push Pusher, feed Feed) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, push: push, feed: feed}
}

// NotifyAdmins stores a notification for every active panel user, pushes it
// to their devices and announces it on the live feed. Push and feed failures
// are logged only.
func (s *NotificationService) NotifyAdmins(ctx context.Context, kind, title, body string, data map[string]any) error {
	users, err := s.userRepo.ListActive()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	list := make([]models.Notification, 0, len(users))
	for _, u := range users {
		list = append(list, models.Notification{UserID: u.ID, Type: kind, Title: title, Body: body, Data: dataJSON})
	}
	if err := s.repo.CreateBatch(list); err != nil {
		return err
	}
	if s.feed != nil {
		s.feed.Publish("notification", map[string]any{"type": kind, "title": title, "body": body, "data": data})
	}
	if s.push != nil {
		payload := stringData(kind, data)
		for _, u := range users {
			if u.FCMToken == "" {
				continue
			}
			if err := s.push.Send(ctx, u.FCMToken, title, body, payload); err != nil {
				log.Ctx(ctx).Warn().Err(err).Uint("user_id", u.ID).Msg("push notification failed")
			}
		}
	}
	return nil
}

func (s *NotificationService) List(userID uint, page, limit int) ([]models.Notification, int64, error) {
	f := repository.ListFilter{Page: page, Limit: limit}.Normalized()
	list, err := s.repo.ListByUserID(userID, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(userID)
	if err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

func (s *NotificationService) MarkRead(userID, id uint) error {
	return storeErr(s.repo.MarkRead(id, userID))
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.repo.MarkAllRead(userID)
}
