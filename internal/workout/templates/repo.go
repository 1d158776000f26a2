package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Repo reads routine templates from the routine_template tables.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Template(ctx context.Context, id int64) (_ *workout.RoutineTemplate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.get")
	span.SetAttributes(attribute.Int64("template.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t := &workout.RoutineTemplate{ID: id}
	if err := r.db.QueryRow(ctx,
		`SELECT name FROM routine_template WHERE id = $1`, id,
	).Scan(&t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workout.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("query routine template: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, exercise_id, position, group_kind, group_position,
			sets, reps, rest_seconds, suggested_weight
		FROM routine_template_slot
		WHERE template_id = $1
		ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("query routine template slots: %w", err)
	}
	defer rows.Close()

	t.Slots = []workout.TemplateSlot{}
	for rows.Next() {
		var (
			slot      workout.TemplateSlot
			groupKind string
		)
		if err := rows.Scan(
			&slot.ID,
			&slot.ExerciseID,
			&slot.Position,
			&groupKind,
			&slot.GroupPosition,
			&slot.Sets,
			&slot.Reps,
			&slot.RestSeconds,
			&slot.SuggestedWeight,
		); err != nil {
			return nil, fmt.Errorf("scan routine template slot: %w", err)
		}
		slot.GroupKind = workout.GroupKind(groupKind)
		t.Slots = append(t.Slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routine template slots: %w", err)
	}

	span.SetAttributes(attribute.Int("template.slots", len(t.Slots)))
	return t, nil
}
