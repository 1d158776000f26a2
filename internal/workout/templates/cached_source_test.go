package templates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/gymsession/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingSource struct {
	calls     int
	templates map[int64]*workout.RoutineTemplate
	err       error
}

func (s *countingSource) Template(_ context.Context, id int64) (*workout.RoutineTemplate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.templates[id]
	if !ok {
		return nil, workout.ErrTemplateNotFound
	}
	return t, nil
}

func testTemplate() *workout.RoutineTemplate {
	sets, reps := 3, 10
	weight := 60.0
	groupPosition := 1
	return &workout.RoutineTemplate{
		ID:   5,
		Name: "Push A",
		Slots: []workout.TemplateSlot{
			{ID: 1, ExerciseID: 10, Position: 1, GroupKind: workout.GroupRegular, Sets: &sets, Reps: &reps, SuggestedWeight: &weight},
			{ID: 2, ExerciseID: 11, Position: 2, GroupKind: workout.GroupSuperset, GroupPosition: &groupPosition, Sets: &sets},
		},
	}
}

func TestCachedSource_Template(t *testing.T) {
	source := &countingSource{templates: map[int64]*workout.RoutineTemplate{5: testTemplate()}}
	cached := NewCachedSource(source, time.Minute)
	ctx := context.Background()

	first, err := cached.Template(ctx, 5)
	require.NoError(t, err)
	second, err := cached.Template(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "Push A", second.Name)
	require.Len(t, second.Slots, 2)
	assert.Equal(t, 60.0, *second.Slots[0].SuggestedWeight)
	assert.Equal(t, workout.GroupSuperset, second.Slots[1].GroupKind)

	cached.Invalidate(5)
	_, err = cached.Template(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedSource_NotFoundIsNotCached(t *testing.T) {
	source := &countingSource{templates: map[int64]*workout.RoutineTemplate{}}
	cached := NewCachedSource(source, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := cached.Template(context.Background(), 9)
		assert.ErrorIs(t, err, workout.ErrTemplateNotFound)
	}
	assert.Equal(t, 2, source.calls)
}

func TestCachedSource_SourceError(t *testing.T) {
	boom := errors.New("boom")
	cached := NewCachedSource(&countingSource{err: boom}, time.Minute)

	_, err := cached.Template(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestCachedSource_CorruptedEntryFallsBackToSource(t *testing.T) {
	source := &countingSource{templates: map[int64]*workout.RoutineTemplate{5: testTemplate()}}
	cached := NewCachedSource(source, time.Minute)
	require.NoError(t, cached.cache.Set([]byte("5"), []byte("{not json"), 60))

	tmpl, err := cached.Template(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Push A", tmpl.Name)
	assert.Equal(t, 1, source.calls)

	// the bad entry was replaced by the fresh one
	_, err = cached.Template(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}
