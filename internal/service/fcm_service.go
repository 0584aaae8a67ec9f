package service

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"corpsite/internal/observability"
)

// Pusher delivers a push notification to one device token.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMService sends push notifications via Firebase Cloud Messaging.
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates an FCM service. Returns nil if Firebase is not configured.
func NewFCMService(serviceAccountPath string) *FCMService {
	if serviceAccountPath == "" {
		return nil
	}
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Error().Err(err).Str("component", "fcm").Msg("init firebase app")
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "fcm").Msg("init messaging client")
		return nil
	}
	return &FCMService{client: client}
}

// Send pushes a notification to the admin panel installed on token's device.
func (s *FCMService) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if s == nil || token == "" {
		return nil
	}
	msg := &messaging.Message{
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
		Token:        token,
		Webpush: &messaging.WebpushConfig{
			Headers: map[string]string{"Urgency": "high"},
		},
		Android: &messaging.AndroidConfig{Priority: "high"},
	}
	start := time.Now()
	_, err := s.client.Send(ctx, msg)
	status := 200
	if err != nil {
		status = 500
	}
	observability.ObserveExternal("fcm", "send", status, time.Since(start))
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}

// stringData converts payload values to strings as FCM requires.
func stringData(kind string, data map[string]any) map[string]string {
	out := map[string]string{"type": kind}
	for k, v := range data {
		switch val := v.(type) {
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
