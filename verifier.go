package session

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// CredentialVerifier checks a userID/password pair against the credential
// store and keeps the lockout counter honest. Every call that reaches an
// existing account mutates the counter exactly once: failures increment,
// success resets.
type CredentialVerifier struct {
	store    CredentialStore
	sink     ActivitySink
	logger   Logger
	provider LoggerProvider
}

// NewCredentialVerifier will create a new CredentialVerifier
func NewCredentialVerifier(store CredentialStore) *CredentialVerifier {
	loggerProvider, logger := ResolveLogger("session.verifier", nil, nil)
	return &CredentialVerifier{
		store:    store,
		sink:     noopActivitySink{},
		logger:   logger,
		provider: loggerProvider,
	}
}

func (v *CredentialVerifier) WithLogger(l Logger) *CredentialVerifier {
	v.provider, v.logger = ResolveLogger("session.verifier", v.provider, l)
	return v
}

// WithLoggerProvider overrides the logger provider used by the verifier.
func (v *CredentialVerifier) WithLoggerProvider(provider LoggerProvider) *CredentialVerifier {
	v.provider, v.logger = ResolveLogger("session.verifier", provider, v.logger)
	return v
}

// WithActivitySink routes login outcome events to the given sink.
func (v *CredentialVerifier) WithActivitySink(sink ActivitySink) *CredentialVerifier {
	v.sink = normalizeActivitySink(sink)
	return v
}

// Authenticate will find the credential, compare the password, and return
// the authenticated principal.
func (v *CredentialVerifier) Authenticate(ctx context.Context, userID, password string) (*Principal, error) {
	record, err := v.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			// never mutate lockout state for an account that does not exist
			return nil, ErrCredentialNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve credential during verification")
	}

	if record.Locked() {
		if err := v.recordFailure(ctx, userID); err != nil {
			return nil, err
		}
		v.emit(ctx, ActivityEventLockout, record)
		return nil, ErrAccountLocked
	}

	if err := ComparePasswordAndHash(password, record.PasswordHash); err != nil {
		if err2 := v.recordFailure(ctx, userID); err2 != nil {
			return nil, err2
		}

		v.emit(ctx, ActivityEventLoginFailure, record)
		return nil, ErrInvalidCredentials
	}

	if err := v.store.RecordSuccess(ctx, userID); err != nil {
		v.logger.Error("failed to record successful login", "error", err, "user_id", userID)
	}

	v.emit(ctx, ActivityEventLoginSuccess, record)

	principal := record.Principal()
	return &principal, nil
}

func (v *CredentialVerifier) recordFailure(ctx context.Context, userID string) error {
	if err := v.store.RecordFailure(ctx, userID); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to record login attempt")
	}
	return nil
}

func (v *CredentialVerifier) emit(ctx context.Context, event ActivityEventType, record *Credential) {
	if v.sink == nil || record == nil {
		return
	}
	err := v.sink.Record(ctx, ActivityEvent{
		EventType:  event,
		Actor:      ActorRef{UserID: record.UserID, DisplayName: record.DisplayName},
		OccurredAt: time.Now(),
	})
	if err != nil {
		v.logger.Warn("activity sink rejected event", "event", string(event), "error", err)
	}
}

var _ Verifier = (*CredentialVerifier)(nil)
