package workout

import (
	"context"
)

// RoutineTemplate is a prescribed list of slots a session can be started from.
// Templates are owned elsewhere and only read here.
type RoutineTemplate struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Slots []TemplateSlot `json:"slots"`
}

type TemplateSlot struct {
	ID              int64     `json:"id"`
	ExerciseID      int64     `json:"exerciseId"`
	Position        int       `json:"position"`
	GroupKind       GroupKind `json:"groupKind"`
	GroupPosition   *int      `json:"groupPosition,omitempty"`
	Sets            *int      `json:"sets,omitempty"`
	Reps            *int      `json:"reps,omitempty"`
	RestSeconds     *int      `json:"restSeconds,omitempty"`
	SuggestedWeight *float64  `json:"suggestedWeight,omitempty"`
}

//go:generate mockgen -source=$GOFILE -destination=template_mocks_test.go -package=workout_test

type TemplateSource interface {
	Template(ctx context.Context, id int64) (*RoutineTemplate, error)
}
