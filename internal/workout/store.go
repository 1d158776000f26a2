package workout

import (
	"context"

	"github.com/google/uuid"
)

type ListParams struct {
	Status *Status
	Page   int
	Size   int
}

// Store persists sessions. Every write goes through WithTx so that an operation
// either lands fully or not at all.
type Store interface {
	HistoryIndex

	// WithTx runs fn in one transaction, committing only when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Active(ctx context.Context, ownerID int64) (*Session, error)
	List(ctx context.Context, ownerID int64, params ListParams) ([]*Session, error)
	PersonalRecords(ctx context.Context, ownerID int64, exerciseID *int64) ([]PersonalRecord, error)
}

// Tx is the write side available inside Store.WithTx.
type Tx interface {
	HistoryIndex

	// Lock loads the whole session and holds it for the rest of the transaction.
	Lock(ctx context.Context, id uuid.UUID) (*Session, error)
	HasActive(ctx context.Context, ownerID int64) (bool, error)

	// InsertSession stores the session with its slots, assigning their ids.
	// Fails with ErrActiveSessionExists if the owner already has an active one.
	InsertSession(ctx context.Context, s *Session) error
	UpdateSessionStatus(ctx context.Context, s *Session) error
	UpdateSessionCompletion(ctx context.Context, s *Session) error

	InsertSlot(ctx context.Context, slot *Slot) error
	UpdateSlotCompletion(ctx context.Context, slot *Slot) error

	InsertSet(ctx context.Context, set *Set) error
	// UpdateSetProgress writes start, completion and measurements,
	// never the personal record fields.
	UpdateSetProgress(ctx context.Context, set *Set) error
	MarkPersonalRecord(ctx context.Context, setID int64, kind PRKind) error

	InsertPause(ctx context.Context, p *PauseEvent) error
	UpdatePause(ctx context.Context, p *PauseEvent) error

	DeleteOwnerSessions(ctx context.Context, ownerID int64) (int64, error)
}
