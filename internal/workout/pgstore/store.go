package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

var _ workout.Store = (*Store)(nil)

// Store keeps workout sessions in Postgres.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx workout.Tx) error) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.tx")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	pgTx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := pgTx.Rollback(ctx); rbErr != nil {
				log.Errorf("rollback after panic: %s", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(ctx, &tx{tx: pgTx}); err != nil {
		if rbErr := pgTx.Rollback(ctx); rbErr != nil {
			return multierr.Append(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id.String()))

	return getSession(ctx, s.db, id, false)
}

func (s *Store) Active(ctx context.Context, ownerID int64) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.active")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("owner.id", ownerID))

	sessions, err := loadSessions(ctx, s.db, `
		SELECT `+sessionColumns+`
		FROM workout_session ws
		WHERE ws.owner_id = $1 AND ws.status IN ($2, $3)
		LIMIT 1;`,
		ownerID, string(workout.StatusInProgress), string(workout.StatusPaused),
	)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, workout.ErrSessionNotFound
	}
	return sessions[0], nil
}

func (s *Store) List(ctx context.Context, ownerID int64, params workout.ListParams) (_ []*workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("owner.id", ownerID))
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	var status *string
	if params.Status != nil {
		raw := string(*params.Status)
		status = &raw
		span.SetAttributes(attribute.String("status", raw))
	}

	// a non-positive size means no paging at all
	var limit, offset *int
	if params.Size > 0 {
		size := params.Size
		skip := (max(params.Page, 1) - 1) * params.Size
		limit, offset = &size, &skip
	}

	return loadSessions(ctx, s.db, `
		SELECT `+sessionColumns+`
		FROM workout_session ws
		WHERE ws.owner_id = $1
			AND ($2::text IS NULL OR ws.status = $2)
		ORDER BY ws.started_at DESC
		LIMIT $3 OFFSET COALESCE($4::int, 0);`,
		ownerID, status, limit, offset,
	)
}

func (s *Store) PersonalRecords(ctx context.Context, ownerID int64, exerciseID *int64) (_ []workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.records")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("owner.id", ownerID))
	if exerciseID != nil {
		span.SetAttributes(attribute.Int64("exercise.id", *exerciseID))
	}

	rows, err := s.db.Query(ctx, `
		SELECT ws.id, sl.id, st.id, sl.exercise_id, st.pr_kind, st.weight, st.reps, st.completed_at
		FROM workout_set st
		JOIN workout_slot sl ON sl.id = st.slot_id
		JOIN workout_session ws ON ws.id = sl.session_id
		WHERE ws.owner_id = $1
			AND ($2::bigint IS NULL OR sl.exercise_id = $2)
			AND st.personal_record
		ORDER BY st.completed_at DESC, st.id DESC;`,
		ownerID, exerciseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query personal records: %w", err)
	}
	defer rows.Close()

	records := make([]workout.PersonalRecord, 0)
	for rows.Next() {
		var (
			record workout.PersonalRecord
			kind   string
		)
		if err := rows.Scan(
			&record.SessionID, &record.SlotID, &record.SetID, &record.ExerciseID,
			&kind, &record.Weight, &record.Reps, &record.AchievedAt,
		); err != nil {
			return nil, fmt.Errorf("scan personal record: %w", err)
		}
		record.Kind = workout.PRKind(kind)
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) ExerciseHistory(ctx context.Context, ownerID, exerciseID int64, excludeSessionID uuid.UUID) (_ []workout.HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("exercise.id", exerciseID))

	return exerciseHistory(ctx, s.db, ownerID, exerciseID, excludeSessionID)
}

func getSession(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*workout.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM workout_session ws WHERE ws.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	sessions, err := loadSessions(ctx, q, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workout.ErrSessionNotFound
		}
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, workout.ErrSessionNotFound
	}
	return sessions[0], nil
}
