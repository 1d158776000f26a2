package workout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymsession/internal/telemetry/metrics"
	"github.com/2beens/gymsession/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Service struct {
	store          Store
	templates      TemplateSource
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(
	store Store,
	templates TemplateSource,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		store:          store,
		templates:      templates,
		metricsManager: metricsManager,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// SetClock replaces the time source, tests use it to control durations.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Start(ctx context.Context, params StartParams) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.start")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int64("owner.id", params.OwnerID))

	var template *RoutineTemplate
	if params.TemplateID != nil {
		if s.templates == nil {
			return nil, ErrTemplateNotFound
		}
		template, err = s.templates.Template(ctx, *params.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("get routine template %d: %w", *params.TemplateID, err)
		}
	}

	session, err := NewSession(params, template, s.now())
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		active, err := tx.HasActive(ctx, params.OwnerID)
		if err != nil {
			return fmt.Errorf("check active session: %w", err)
		}
		if active {
			return ErrActiveSessionExists
		}
		return tx.InsertSession(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.metricsManager.CounterSessionsStarted.WithLabelValues(string(session.Kind)).Inc()
	log.Debugf("workout session %s started for owner %d, slots: %d", session.ID, session.OwnerID, len(session.Slots))

	return session, nil
}

func (s *Service) Get(ctx context.Context, ownerID int64, id uuid.UUID) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) Active(ctx context.Context, ownerID int64) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.active")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return s.store.Active(ctx, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID int64, params ListParams) (_ []*Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if params.Status != nil && !params.Status.IsValid() {
		return nil, NewValidationError("list", FieldError{Field: "status", Message: "unknown status"})
	}

	sessions, err := s.store.List(ctx, ownerID, params)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Service) Pause(ctx context.Context, ownerID int64, id uuid.UUID, reason string) (_ *PauseEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.pause")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var pause *PauseEvent
	err = s.mutate(ctx, ownerID, id, func(ctx context.Context, tx Tx, session *Session) error {
		p, err := session.Pause(s.now(), reason)
		if err != nil {
			return err
		}
		if err := tx.InsertPause(ctx, p); err != nil {
			return fmt.Errorf("insert pause: %w", err)
		}
		if err := tx.UpdateSessionStatus(ctx, session); err != nil {
			return fmt.Errorf("update session status: %w", err)
		}
		pause = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pause, nil
}

func (s *Service) Resume(ctx context.Context, ownerID int64, id uuid.UUID) (_ *PauseEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.resume")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var pause *PauseEvent
	err = s.mutate(ctx, ownerID, id, func(ctx context.Context, tx Tx, session *Session) error {
		p, err := session.Resume(s.now())
		if err != nil {
			return err
		}
		if err := tx.UpdatePause(ctx, p); err != nil {
			return fmt.Errorf("update pause: %w", err)
		}
		if err := tx.UpdateSessionStatus(ctx, session); err != nil {
			return fmt.Errorf("update session status: %w", err)
		}
		pause = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pause, nil
}

// Complete runs the completion sequence in one transaction. Lookup and state
// guard failures come back as they are; anything failing inside the sequence,
// panics included, is reported as a single *CompletionError after rollback.
func (s *Service) Complete(ctx context.Context, ownerID int64, id uuid.UUID, in CompletionInput) (_ *CompletionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.complete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	begin := time.Now()
	var result *CompletionResult
	err = s.mutate(ctx, ownerID, id, func(ctx context.Context, tx Tx, session *Session) (stepErr error) {
		if _, err := session.Status.Next(ActionComplete); err != nil {
			return err
		}

		defer func() {
			if r := recover(); r != nil {
				stepErr = &completionStepError{err: fmt.Errorf("panic: %v", r)}
			}
		}()

		res, err := s.completeInTx(ctx, tx, session.Clone(), in)
		if err != nil {
			return &completionStepError{err: err}
		}
		result = res
		return nil
	})

	var stepErr *completionStepError
	if errors.As(err, &stepErr) {
		s.metricsManager.CounterCompletionFailures.Inc()
		log.Errorf("complete session %s: %s", id, err)
		return nil, &CompletionError{SessionID: id, Err: err}
	}
	if err != nil {
		return nil, err
	}

	s.metricsManager.HistCompletionDuration.Observe(time.Since(begin).Seconds())
	s.metricsManager.CounterSessionsCompleted.Inc()
	for _, hit := range result.Records {
		s.metricsManager.CounterPersonalRecords.WithLabelValues(string(hit.Kind)).Inc()
	}
	log.Debugf("workout session %s completed, volume: %.2f, records: %d", id, result.Session.Totals.Volume, len(result.Records))

	return result, nil
}

func (s *Service) completeInTx(ctx context.Context, tx Tx, draft *Session, in CompletionInput) (*CompletionResult, error) {
	aggregator := NewCompletionAggregator(NewPersonalRecordDetector(tx))
	result, err := aggregator.Complete(ctx, draft, in, s.now())
	if err != nil {
		return nil, err
	}

	if result.ResumedPause != nil {
		if err := tx.UpdatePause(ctx, result.ResumedPause); err != nil {
			return nil, fmt.Errorf("close pause: %w", err)
		}
	}
	for _, slot := range draft.Slots {
		if err := tx.UpdateSlotCompletion(ctx, slot); err != nil {
			return nil, fmt.Errorf("finalize slot %d: %w", slot.ID, err)
		}
	}
	if err := tx.UpdateSessionCompletion(ctx, draft); err != nil {
		return nil, fmt.Errorf("store totals: %w", err)
	}
	for _, hit := range result.Records {
		if err := tx.MarkPersonalRecord(ctx, hit.SetID, hit.Kind); err != nil {
			return nil, fmt.Errorf("mark personal record on set %d: %w", hit.SetID, err)
		}
	}

	return result, nil
}

func (s *Service) Abandon(ctx context.Context, ownerID int64, id uuid.UUID) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.abandon")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var abandoned *Session
	err = s.mutate(ctx, ownerID, id, func(ctx context.Context, tx Tx, session *Session) error {
		if err := session.Abandon(s.now()); err != nil {
			return err
		}
		if err := tx.UpdateSessionStatus(ctx, session); err != nil {
			return fmt.Errorf("update session status: %w", err)
		}
		abandoned = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metricsManager.CounterSessionsAbandoned.Inc()
	return abandoned, nil
}

func (s *Service) AddSlot(ctx context.Context, ownerID int64, id uuid.UUID, in SlotInput) (_ *Slot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.slot.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var slot *Slot
	err = s.mutate(ctx, ownerID, id, func(ctx context.Context, tx Tx, session *Session) error {
		added, err := session.AddSlot(in, s.now())
		if err != nil {
			return err
		}
		if err := tx.InsertSlot(ctx, added); err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
		slot = added
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *Service) RecordSet(ctx context.Context, ownerID int64, id uuid.UUID, slotID int64, in SetInput) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.set.record")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	set, err := s.insertSet(ctx, ownerID, id, func(session *Session) (*Set, error) {
		return session.RecordSet(slotID, in, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.metricsManager.CounterSetsRecorded.WithLabelValues(string(set.Kind)).Inc()
	return set, nil
}

func (s *Service) PlanSet(ctx context.Context, ownerID int64, id uuid.UUID, slotID int64, in SetInput) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.set.plan")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return s.insertSet(ctx, ownerID, id, func(session *Session) (*Set, error) {
		return session.PlanSet(slotID, in, s.now())
	})
}

func (s *Service) StartSet(ctx context.Context, ownerID int64, id uuid.UUID, setID int64) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.set.start")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return s.updateSet(ctx, ownerID, id, func(session *Session) (*Set, error) {
		return session.StartSet(setID, s.now())
	})
}

func (s *Service) CompleteSet(ctx context.Context, ownerID int64, id uuid.UUID, setID int64, override *SetOverride) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.set.complete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	set, err := s.updateSet(ctx, ownerID, id, func(session *Session) (*Set, error) {
		return session.CompleteSet(setID, override, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.metricsManager.CounterSetsRecorded.WithLabelValues(string(set.Kind)).Inc()
	return set, nil
}

func (s *Service) PersonalRecords(ctx context.Context, ownerID int64, exerciseID *int64) (_ []PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.records")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	records, err := s.store.PersonalRecords(ctx, ownerID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("list personal records: %w", err)
	}
	return records, nil
}

// SuggestWeight proposes the heaviest normal set weight of the most recent
// completed session that had the exercise. Nil when there is no history.
func (s *Service) SuggestWeight(ctx context.Context, ownerID, exerciseID int64) (_ *float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.suggest.weight")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	history, err := s.store.ExerciseHistory(ctx, ownerID, exerciseID, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("exercise history: %w", err)
	}
	if len(history) == 0 {
		return nil, nil
	}

	latest := history[0]
	for _, h := range history[1:] {
		if h.CompletedAt.After(latest.CompletedAt) {
			latest = h
		}
	}
	suggested := 0.0
	for _, h := range history {
		if h.SessionID == latest.SessionID && h.Weight > suggested {
			suggested = h.Weight
		}
	}
	return &suggested, nil
}

// PurgeHistory removes every session of the owner together with slots, sets
// and pauses.
func (s *Service) PurgeHistory(ctx context.Context, ownerID int64) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workout.purge")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var deleted int64
	err = s.store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		deleted, err = tx.DeleteOwnerSessions(ctx, ownerID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete owner sessions: %w", err)
	}

	log.Infof("purged %d workout sessions of owner %d", deleted, ownerID)
	return deleted, nil
}

// mutate locks the owner's session in a transaction and hands it to fn.
func (s *Service) mutate(
	ctx context.Context,
	ownerID int64,
	id uuid.UUID,
	fn func(ctx context.Context, tx Tx, session *Session) error,
) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		session, err := tx.Lock(ctx, id)
		if err != nil {
			return err
		}
		if session.OwnerID != ownerID {
			return ErrSessionNotFound
		}
		return fn(ctx, tx, session)
	})
}

func (s *Service) insertSet(ctx context.Context, ownerID int64, id uuid.UUID, create func(*Session) (*Set, error)) (*Set, error) {
	var set *Set
	err := s.mutate(ctx, ownerID, id, func(ctx context.Context, tx Tx, session *Session) error {
		created, err := create(session)
		if err != nil {
			return err
		}
		if err := tx.InsertSet(ctx, created); err != nil {
			return fmt.Errorf("insert set: %w", err)
		}
		set = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Service) updateSet(ctx context.Context, ownerID int64, id uuid.UUID, update func(*Session) (*Set, error)) (*Set, error) {
	var set *Set
	err := s.mutate(ctx, ownerID, id, func(ctx context.Context, tx Tx, session *Session) error {
		updated, err := update(session)
		if err != nil {
			return err
		}
		if err := tx.UpdateSetProgress(ctx, updated); err != nil {
			return fmt.Errorf("update set: %w", err)
		}
		set = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}
