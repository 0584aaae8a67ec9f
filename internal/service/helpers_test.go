package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"corpsite/internal/models"
	"corpsite/internal/repository"
	"corpsite/internal/testutil"
	"corpsite/pkg/mailer"
)

type recordingStore struct {
	mu   sync.Mutex
	tags []string
}

func (s *recordingStore) Get(context.Context, string, any) (bool, error) { return false, nil }

func (s *recordingStore) Set(context.Context, string, any, time.Duration, ...string) error {
	return nil
}

func (s *recordingStore) Revalidate(_ context.Context, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, tags...)
	return nil
}

func (s *recordingStore) revalidated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tags...)
}

type event struct {
	Type    string
	Payload any
}

type recordingFeed struct {
	mu     sync.Mutex
	events []event
}

func (f *recordingFeed) Publish(eventType string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event{eventType, payload})
}

func (f *recordingFeed) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	db    *gorm.DB
	store *recordingStore
	feed  *recordingFeed
	pub   *Publisher
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	store := &recordingStore{}
	feed := &recordingFeed{}
	return &testEnv{
		db:    db,
		store: store,
		feed:  feed,
		pub:   NewPublisher(store, repository.NewAuditLogRepository(db), feed),
	}
}

func (e *testEnv) blogs() *BlogService {
	return NewBlogService(repository.NewBlogRepository(e.db), e.pub)
}

func (e *testEnv) services() *ServicesService {
	return NewServicesService(repository.NewServiceRepository(e.db), e.pub)
}

func (e *testEnv) public() *PublicService {
	return NewPublicService(PublicRepos{
		Blogs:        repository.NewBlogRepository(e.db),
		Views:        repository.NewBlogViewRepository(e.db),
		Services:     repository.NewServiceRepository(e.db),
		Employees:    repository.NewEmployeeRepository(e.db),
		Testimonials: repository.NewTestimonialRepository(e.db),
		Branches:     repository.NewBranchRepository(e.db),
		Sliders:      repository.NewSliderRepository(e.db),
		Statistics:   repository.NewStatisticRepository(e.db),
		Media:        repository.NewYoutubeMediaRepository(e.db),
		Settings:     repository.NewSettingRepository(e.db),
	})
}

func ptr[T any](v T) *T { return &v }

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	return ve.Fields
}

func (e *testEnv) user(t *testing.T, email, role string) *models.User {
	t.Helper()
	hash, err := hashPassword("password123")
	require.NoError(t, err)
	u := &models.User{Email: email, Name: email, PasswordHash: hash, Role: role, IsActive: true}
	require.NoError(t, repository.NewUserRepository(e.db).Create(u))
	return u
}
