package session_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockCredentialStore implements session.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) GetByUserID(ctx context.Context, userID string) (*session.Credential, error) {
	args := m.Called(ctx, userID)
	record, _ := args.Get(0).(*session.Credential)
	return record, args.Error(1)
}

func (m *MockCredentialStore) RecordFailure(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCredentialStore) RecordSuccess(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockLogger implements session.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(message string, args ...any) {
	m.Called(message, args)
}

func (m *MockLogger) Info(message string, args ...any) {
	m.Called(message, args)
}

func (m *MockLogger) Warn(message string, args ...any) {
	m.Called(message, args)
}

func (m *MockLogger) Error(message string, args ...any) {
	m.Called(message, args)
}

// nopLogger swallows everything, for tests that do not assert on logging
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// CapturingSink collects activity events for assertions
type CapturingSink struct {
	mu     sync.Mutex
	Events []session.ActivityEvent
}

func (s *CapturingSink) Record(_ context.Context, event session.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
	return nil
}

func (s *CapturingSink) Types() []session.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]session.ActivityEventType, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, e.EventType)
	}
	return out
}

// fakeCredentialStore is a stateful in-memory store used to exercise the
// full lockout sequence without a database.
type fakeCredentialStore struct {
	mu      sync.Mutex
	records map[string]*session.Credential
}

func newFakeCredentialStore(records ...*session.Credential) *fakeCredentialStore {
	s := &fakeCredentialStore{records: map[string]*session.Credential{}}
	for _, r := range records {
		s.records[r.UserID] = r
	}
	return s
}

func (s *fakeCredentialStore) GetByUserID(_ context.Context, userID string) (*session.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return nil, session.ErrCredentialNotFound
	}
	clone := *record
	return &clone, nil
}

func (s *fakeCredentialStore) RecordFailure(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[userID]; ok {
		record.FailedAttempts++
	}
	return nil
}

func (s *fakeCredentialStore) RecordSuccess(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[userID]; ok {
		record.FailedAttempts = 0
	}
	return nil
}

func (s *fakeCredentialStore) attempts(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[userID].FailedAttempts
}

// testSigningKey is long enough for HS256
const testSigningKey = "0123456789abcdef0123456789abcdef"

func testSettings() *session.Settings {
	return session.NewSettings(testSigningKey)
}

// quickHash trades bcrypt cost for test speed
func quickHash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func testCredential(userID, password string) *session.Credential {
	return &session.Credential{
		UserID:       userID,
		DisplayName:  "Test User",
		RoleCode:     session.RoleUser,
		PasswordHash: quickHash(password),
	}
}
