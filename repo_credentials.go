package session

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Lockout bookkeeping runs as single atomic statements so concurrent login
// attempts for the same account serialize on the store's row-level update.
var recordFailureSQL = `UPDATE "credentials" AS "cred"
SET
	"failed_attempts" = "failed_attempts" + 1,
	"updated_at" = ?
WHERE
	"cred"."deleted_at" IS NULL
AND (
	"cred"."user_id" = ?
);`

var recordSuccessSQL = `UPDATE "credentials" AS "cred"
SET
	"failed_attempts" = 0,
	"last_login_at" = ?,
	"updated_at" = ?
WHERE
	"cred"."deleted_at" IS NULL
AND (
	"cred"."user_id" = ?
);`

// Credentials is the persistence surface for credential records and their
// lockout counters.
type Credentials interface {
	repository.Repository[*Credential]

	GetByUserID(ctx context.Context, userID string) (*Credential, error)
	GetByUserIDTx(ctx context.Context, tx bun.IDB, userID string) (*Credential, error)

	RecordFailure(ctx context.Context, userID string) error
	RecordFailureTx(ctx context.Context, tx bun.IDB, userID string) error
	RecordSuccess(ctx context.Context, userID string) error
	RecordSuccessTx(ctx context.Context, tx bun.IDB, userID string) error

	IsLocked(ctx context.Context, userID string) (bool, error)
	Unlock(ctx context.Context, userID string) error
	UnlockTx(ctx context.Context, tx bun.IDB, userID string) error

	Register(ctx context.Context, record *Credential, password string) (*Credential, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *Credential, password string) (*Credential, error)
}

type credentials struct {
	repository.Repository[*Credential]
	db *bun.DB
}

var (
	_ Credentials                        = (*credentials)(nil)
	_ CredentialStore                    = (*credentials)(nil)
	_ repository.Repository[*Credential] = (*credentials)(nil)
)

// NewCredentialsRepository builds the bun-backed credential store.
func NewCredentialsRepository(db *bun.DB) Credentials {
	repo := repository.NewRepository[*Credential](db, repository.ModelHandlers[*Credential]{
		NewRecord: func() *Credential { return &Credential{} },
		GetID: func(c *Credential) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Credential, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &credentials{
		Repository: repo,
		db:         db,
	}
}

func (r *credentials) GetByUserID(ctx context.Context, userID string) (*Credential, error) {
	return r.GetByUserIDTx(ctx, r.db, userID)
}

func (r *credentials) GetByUserIDTx(ctx context.Context, tx bun.IDB, userID string) (*Credential, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, repository.NewRecordNotFound()
	}

	record := &Credential{}
	err := tx.NewSelect().
		Model(record).
		Where(`?TableAlias."user_id" = ?`, userID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"user_id": userID,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *credentials) RecordFailure(ctx context.Context, userID string) error {
	return r.RecordFailureTx(ctx, r.db, userID)
}

func (r *credentials) RecordFailureTx(ctx context.Context, tx bun.IDB, userID string) error {
	_, err := tx.NewRaw(recordFailureSQL, time.Now(), userID).Exec(ctx)
	return err
}

func (r *credentials) RecordSuccess(ctx context.Context, userID string) error {
	return r.RecordSuccessTx(ctx, r.db, userID)
}

func (r *credentials) RecordSuccessTx(ctx context.Context, tx bun.IDB, userID string) error {
	now := time.Now()
	_, err := tx.NewRaw(recordSuccessSQL, now, now, userID).Exec(ctx)
	return err
}

func (r *credentials) IsLocked(ctx context.Context, userID string) (bool, error) {
	record, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return record.Locked(), nil
}

// Unlock resets the failure counter without stamping a login. Meant for
// administrative recovery of locked accounts.
func (r *credentials) Unlock(ctx context.Context, userID string) error {
	return r.UnlockTx(ctx, r.db, userID)
}

func (r *credentials) UnlockTx(ctx context.Context, tx bun.IDB, userID string) error {
	_, err := tx.NewUpdate().
		Model((*Credential)(nil)).
		Set(`"failed_attempts" = 0`).
		Set(`"updated_at" = ?`, time.Now()).
		Where(`?TableAlias."user_id" = ?`, userID).
		Where(`?TableAlias."deleted_at" IS NULL`).
		Exec(ctx)
	return err
}

// Register hashes the plaintext password and inserts the record.
func (r *credentials) Register(ctx context.Context, record *Credential, password string) (*Credential, error) {
	return r.RegisterTx(ctx, r.db, record, password)
}

func (r *credentials) RegisterTx(ctx context.Context, tx bun.IDB, record *Credential, password string) (*Credential, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	prepareCredentialDefaults(record)
	record.PasswordHash = hash

	return r.Repository.CreateTx(ctx, tx, record)
}

func prepareCredentialDefaults(record *Credential) {
	if record == nil {
		return
	}

	record.EnsureRole()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
