package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymsession/internal/workout"
	"github.com/2beens/gymsession/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const activeOwnerConstraint = "ux_workout_session_active_owner"

var _ workout.Tx = (*tx)(nil)

type tx struct {
	tx pgx.Tx
}

func (t *tx) ExerciseHistory(ctx context.Context, ownerID, exerciseID int64, excludeSessionID uuid.UUID) ([]workout.HistoryEntry, error) {
	return exerciseHistory(ctx, t.tx, ownerID, exerciseID, excludeSessionID)
}

func (t *tx) Lock(ctx context.Context, id uuid.UUID) (*workout.Session, error) {
	return getSession(ctx, t.tx, id, true)
}

func (t *tx) HasActive(ctx context.Context, ownerID int64) (bool, error) {
	var active bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM workout_session WHERE owner_id = $1 AND status IN ($2, $3)
		);`,
		ownerID, string(workout.StatusInProgress), string(workout.StatusPaused),
	).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("query active session: %w", err)
	}
	return active, nil
}

func (t *tx) InsertSession(ctx context.Context, s *workout.Session) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO workout_session
			(id, owner_id, template_id, kind, name, status, started_at, completed_at, rating, feedback,
			 total_volume, total_sets, total_exercises, average_intensity, duration_seconds,
			 followed_routine, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		s.ID, s.OwnerID, s.TemplateID, string(s.Kind), s.Name, string(s.Status), s.StartedAt, s.CompletedAt,
		s.Rating, s.Feedback, s.Totals.Volume, s.Totals.SetsCompleted, s.Totals.ExercisesCompleted,
		s.Totals.AverageIntensity, s.Totals.DurationSeconds, s.FollowedRoutine, s.UpdatedAt,
	)
	if err != nil {
		if violates(err, activeOwnerConstraint) {
			return workout.ErrActiveSessionExists
		}
		return fmt.Errorf("insert session: %w", err)
	}

	for _, slot := range s.Slots {
		slot.SessionID = s.ID
		if err := t.InsertSlot(ctx, slot); err != nil {
			return err
		}
		for _, set := range slot.Sets {
			set.SlotID = slot.ID
			if err := t.InsertSet(ctx, set); err != nil {
				return err
			}
		}
	}
	for _, p := range s.Pauses {
		p.SessionID = s.ID
		if err := t.InsertPause(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (t *tx) UpdateSessionStatus(ctx context.Context, s *workout.Session) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE workout_session SET status = $1, completed_at = $2, updated_at = $3 WHERE id = $4;`,
		string(s.Status), s.CompletedAt, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrSessionNotFound
	}
	return nil
}

func (t *tx) UpdateSessionCompletion(ctx context.Context, s *workout.Session) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE workout_session SET
			status = $1, completed_at = $2, rating = $3, feedback = $4, total_volume = $5, total_sets = $6,
			total_exercises = $7, average_intensity = $8, duration_seconds = $9, followed_routine = $10,
			updated_at = $11
		WHERE id = $12;`,
		string(s.Status), s.CompletedAt, s.Rating, s.Feedback, s.Totals.Volume, s.Totals.SetsCompleted,
		s.Totals.ExercisesCompleted, s.Totals.AverageIntensity, s.Totals.DurationSeconds, s.FollowedRoutine,
		s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update session completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrSessionNotFound
	}
	return nil
}

func (t *tx) InsertSlot(ctx context.Context, slot *workout.Slot) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO workout_slot
			(session_id, exercise_id, template_slot_id, position, group_kind, group_position, target_sets,
			 target_reps, suggested_weight, rest_seconds, finalized, completed_as_prescribed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;`,
		slot.SessionID, slot.ExerciseID, slot.TemplateSlotID, slot.Position, string(slot.GroupKind),
		slot.GroupPosition, slot.TargetSets, slot.TargetReps, slot.SuggestedWeight, slot.RestSeconds,
		slot.Finalized, slot.CompletedAsPrescribed, slot.CreatedAt, slot.UpdatedAt,
	).Scan(&slot.ID)
	if err != nil {
		switch {
		case pkg.IsUniqueViolationError(err):
			return workout.NewValidationError("slot", workout.FieldError{Field: "position", Message: "already taken"})
		case pkg.IsForeignKeyViolationError(err):
			return workout.ErrSessionNotFound
		}
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

func (t *tx) UpdateSlotCompletion(ctx context.Context, slot *workout.Slot) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE workout_slot SET finalized = $1, completed_as_prescribed = $2, updated_at = $3 WHERE id = $4;`,
		slot.Finalized, slot.CompletedAsPrescribed, slot.UpdatedAt, slot.ID,
	)
	if err != nil {
		return fmt.Errorf("update slot completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrSlotNotFound
	}
	return nil
}

func (t *tx) InsertSet(ctx context.Context, set *workout.Set) error {
	var prKind *string
	if set.PRKind != "" {
		raw := string(set.PRKind)
		prKind = &raw
	}

	err := t.tx.QueryRow(ctx, `
		INSERT INTO workout_set
			(slot_id, number, kind, weight, reps, rating, rest_seconds, drop_weight, drop_reps, started_at,
			 completed, completed_at, personal_record, pr_kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;`,
		set.SlotID, set.Number, string(set.Kind), set.Weight, set.Reps, set.Rating, set.RestSeconds,
		set.DropWeight, set.DropReps, set.StartedAt, set.Completed, set.CompletedAt, set.PersonalRecord, prKind,
	).Scan(&set.ID)
	if err != nil {
		switch {
		case pkg.IsUniqueViolationError(err):
			return workout.NewValidationError("set", workout.FieldError{Field: "number", Message: "already taken"})
		case pkg.IsForeignKeyViolationError(err):
			return workout.ErrSlotNotFound
		}
		return fmt.Errorf("insert set: %w", err)
	}
	return nil
}

func (t *tx) UpdateSetProgress(ctx context.Context, set *workout.Set) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE workout_set SET
			weight = $1, reps = $2, drop_weight = $3, drop_reps = $4, started_at = $5, completed = $6,
			completed_at = $7
		WHERE id = $8;`,
		set.Weight, set.Reps, set.DropWeight, set.DropReps, set.StartedAt, set.Completed, set.CompletedAt, set.ID,
	)
	if err != nil {
		return fmt.Errorf("update set progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrSetNotFound
	}
	return nil
}

func (t *tx) MarkPersonalRecord(ctx context.Context, setID int64, kind workout.PRKind) error {
	if !kind.IsValid() {
		return workout.NewValidationError("set", workout.FieldError{Field: "prKind", Message: fmt.Sprintf("unknown kind %q", kind)})
	}

	var alreadyFlagged bool
	err := t.tx.QueryRow(ctx, `SELECT personal_record FROM workout_set WHERE id = $1 FOR UPDATE;`, setID).
		Scan(&alreadyFlagged)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workout.ErrSetNotFound
		}
		return fmt.Errorf("lock set: %w", err)
	}
	if alreadyFlagged {
		return workout.ErrAlreadyRecorded
	}

	if _, err := t.tx.Exec(ctx,
		`UPDATE workout_set SET personal_record = TRUE, pr_kind = $1 WHERE id = $2;`,
		string(kind), setID,
	); err != nil {
		return fmt.Errorf("mark personal record: %w", err)
	}
	return nil
}

func (t *tx) InsertPause(ctx context.Context, p *workout.PauseEvent) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO workout_pause (session_id, paused_at, resumed_at, reason, duration_ms)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;`,
		p.SessionID, p.PausedAt, p.ResumedAt, p.Reason, p.Duration.Milliseconds(),
	).Scan(&p.ID)
	if err != nil {
		switch {
		case pkg.IsUniqueViolationError(err):
			return workout.ErrPauseAlreadyActive
		case pkg.IsForeignKeyViolationError(err):
			return workout.ErrSessionNotFound
		}
		return fmt.Errorf("insert pause: %w", err)
	}
	return nil
}

func (t *tx) UpdatePause(ctx context.Context, p *workout.PauseEvent) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE workout_pause SET resumed_at = $1, duration_ms = $2 WHERE id = $3 AND session_id = $4;`,
		p.ResumedAt, p.Duration.Milliseconds(), p.ID, p.SessionID,
	)
	if err != nil {
		return fmt.Errorf("update pause: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrNoActivePause
	}
	return nil
}

func (t *tx) DeleteOwnerSessions(ctx context.Context, ownerID int64) (int64, error) {
	tag, err := t.tx.Exec(ctx, `DELETE FROM workout_session WHERE owner_id = $1;`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete owner sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func violates(err error, constraint string) bool {
	return pkg.ViolatesUnique(err, constraint)
}
