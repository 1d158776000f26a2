package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/gymsession/internal/workout"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type scanner interface {
	Scan(dest ...any) error
}

const sessionColumns = `
	ws.id, ws.owner_id, ws.template_id, ws.kind, ws.name, ws.status, ws.started_at, ws.completed_at,
	ws.rating, ws.feedback, ws.total_volume, ws.total_sets, ws.total_exercises, ws.average_intensity,
	ws.duration_seconds, ws.followed_routine, ws.updated_at`

const slotColumns = `
	sl.id, sl.session_id, sl.exercise_id, sl.template_slot_id, sl.position, sl.group_kind, sl.group_position,
	sl.target_sets, sl.target_reps, sl.suggested_weight, sl.rest_seconds, sl.finalized,
	sl.completed_as_prescribed, sl.created_at, sl.updated_at`

const setColumns = `
	st.id, st.slot_id, st.number, st.kind, st.weight, st.reps, st.rating, st.rest_seconds, st.drop_weight,
	st.drop_reps, st.started_at, st.completed, st.completed_at, st.personal_record, st.pr_kind`

const pauseColumns = `p.id, p.session_id, p.paused_at, p.resumed_at, p.reason, p.duration_ms`

func scanSession(row scanner) (*workout.Session, error) {
	var (
		s            workout.Session
		kind, status string
	)
	if err := row.Scan(
		&s.ID, &s.OwnerID, &s.TemplateID, &kind, &s.Name, &status, &s.StartedAt, &s.CompletedAt,
		&s.Rating, &s.Feedback, &s.Totals.Volume, &s.Totals.SetsCompleted, &s.Totals.ExercisesCompleted,
		&s.Totals.AverageIntensity, &s.Totals.DurationSeconds, &s.FollowedRoutine, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Kind = workout.Kind(kind)
	s.Status = workout.Status(status)
	s.Slots = make([]*workout.Slot, 0)
	s.Pauses = make([]*workout.PauseEvent, 0)
	return &s, nil
}

func scanSlot(row scanner) (*workout.Slot, error) {
	var (
		slot      workout.Slot
		groupKind string
	)
	if err := row.Scan(
		&slot.ID, &slot.SessionID, &slot.ExerciseID, &slot.TemplateSlotID, &slot.Position, &groupKind,
		&slot.GroupPosition, &slot.TargetSets, &slot.TargetReps, &slot.SuggestedWeight, &slot.RestSeconds,
		&slot.Finalized, &slot.CompletedAsPrescribed, &slot.CreatedAt, &slot.UpdatedAt,
	); err != nil {
		return nil, err
	}
	slot.GroupKind = workout.GroupKind(groupKind)
	slot.Sets = make([]*workout.Set, 0)
	return &slot, nil
}

func scanSet(row scanner) (*workout.Set, error) {
	var (
		set    workout.Set
		kind   string
		prKind *string
	)
	if err := row.Scan(
		&set.ID, &set.SlotID, &set.Number, &kind, &set.Weight, &set.Reps, &set.Rating, &set.RestSeconds,
		&set.DropWeight, &set.DropReps, &set.StartedAt, &set.Completed, &set.CompletedAt,
		&set.PersonalRecord, &prKind,
	); err != nil {
		return nil, err
	}
	set.Kind = workout.SetKind(kind)
	if prKind != nil {
		set.PRKind = workout.PRKind(*prKind)
	}
	return &set, nil
}

func scanPause(row scanner) (*workout.PauseEvent, error) {
	var (
		p          workout.PauseEvent
		durationMs int64
	)
	if err := row.Scan(&p.ID, &p.SessionID, &p.PausedAt, &p.ResumedAt, &p.Reason, &durationMs); err != nil {
		return nil, err
	}
	p.Duration = time.Duration(durationMs) * time.Millisecond
	return &p, nil
}

// loadSessions runs a query returning session columns and attaches slots, sets
// and pauses of every returned session, keeping the query's order.
func loadSessions(ctx context.Context, q querier, query string, args ...any) ([]*workout.Session, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	sessions := make([]*workout.Session, 0)
	byID := make(map[uuid.UUID]*workout.Session)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
		byID[s.ID] = s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID.String())
	}

	slots, err := loadSlots(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		s := byID[slot.SessionID]
		s.Slots = append(s.Slots, slot)
	}

	pauses, err := loadPauses(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range pauses {
		s := byID[p.SessionID]
		s.Pauses = append(s.Pauses, p)
	}

	return sessions, nil
}

func loadSlots(ctx context.Context, q querier, sessionIDs []string) ([]*workout.Slot, error) {
	rows, err := q.Query(ctx, `
		SELECT `+slotColumns+`
		FROM workout_slot sl
		WHERE sl.session_id = ANY($1::uuid[])
		ORDER BY sl.position, sl.id;`,
		sessionIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	var slots []*workout.Slot
	byID := make(map[int64]*workout.Slot)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
		byID[slot.ID] = slot
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	setRows, err := q.Query(ctx, `
		SELECT `+setColumns+`
		FROM workout_set st
		JOIN workout_slot sl ON sl.id = st.slot_id
		WHERE sl.session_id = ANY($1::uuid[])
		ORDER BY st.number, st.id;`,
		sessionIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		set, err := scanSet(setRows)
		if err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		if slot, ok := byID[set.SlotID]; ok {
			slot.Sets = append(slot.Sets, set)
		}
	}
	return slots, setRows.Err()
}

func loadPauses(ctx context.Context, q querier, sessionIDs []string) ([]*workout.PauseEvent, error) {
	rows, err := q.Query(ctx, `
		SELECT `+pauseColumns+`
		FROM workout_pause p
		WHERE p.session_id = ANY($1::uuid[])
		ORDER BY p.paused_at, p.id;`,
		sessionIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query pauses: %w", err)
	}
	defer rows.Close()

	var pauses []*workout.PauseEvent
	for rows.Next() {
		p, err := scanPause(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pause: %w", err)
		}
		pauses = append(pauses, p)
	}
	return pauses, rows.Err()
}

// exerciseHistory backs workout.HistoryIndex for both the pool and a transaction.
// It only reads, so sets of finished sessions are never locked.
func exerciseHistory(ctx context.Context, q querier, ownerID, exerciseID int64, excludeSessionID uuid.UUID) ([]workout.HistoryEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT ws.id, st.id, st.weight, st.reps, st.completed_at
		FROM workout_set st
		JOIN workout_slot sl ON sl.id = st.slot_id
		JOIN workout_session ws ON ws.id = sl.session_id
		WHERE ws.owner_id = $1
			AND sl.exercise_id = $2
			AND ws.id <> $3
			AND ws.status = $4
			AND st.completed
			AND st.kind = $5
		ORDER BY st.completed_at, st.id;`,
		ownerID, exerciseID, excludeSessionID, string(workout.StatusCompleted), string(workout.SetKindNormal),
	)
	if err != nil {
		return nil, fmt.Errorf("query exercise history: %w", err)
	}
	defer rows.Close()

	history := make([]workout.HistoryEntry, 0)
	for rows.Next() {
		var (
			entry       workout.HistoryEntry
			completedAt *time.Time
		)
		if err := rows.Scan(&entry.SessionID, &entry.SetID, &entry.Weight, &entry.Reps, &completedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if completedAt != nil {
			entry.CompletedAt = *completedAt
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}
