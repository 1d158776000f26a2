//go:build integration_test || all_tests

package pgstore

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/2beens/gymsession/internal/db"
	"github.com/2beens/gymsession/internal/telemetry/metrics"
	"github.com/2beens/gymsession/internal/workout"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreSetup(t *testing.T) (*Store, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	params := db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "gymsession",
		DBUser:         "postgres",
		TracingEnabled: false,
	}
	require.NoError(t, RunMigrations(params.ConnString()))

	dbPool, err := db.NewDBPool(timeoutCtx, params)
	require.NoError(t, err)

	_, err = dbPool.Exec(timeoutCtx, `DELETE FROM workout_session`)
	require.NoError(t, err)

	return NewStore(dbPool), func() {
		dbPool.Close()
	}
}

func newTestService(store *Store, now *time.Time) *workout.Service {
	svc := workout.NewService(store, nil, metrics.NewTestManager())
	svc.SetClock(func() time.Time {
		*now = now.Add(time.Minute)
		return *now
	})
	return svc
}

func TestStore_SessionRoundTrip(t *testing.T) {
	store, shutdown := testStoreSetup(t)
	defer shutdown()

	ctx := context.Background()
	now := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, &now)

	s, err := svc.Start(ctx, workout.StartParams{OwnerID: 1, Name: "Back"})
	require.NoError(t, err)
	slot, err := svc.AddSlot(ctx, 1, s.ID, workout.SlotInput{ExerciseID: 10, TargetSets: ptr(1), TargetReps: ptr(8)})
	require.NoError(t, err)
	require.NotZero(t, slot.ID)

	set, err := svc.RecordSet(ctx, 1, s.ID, slot.ID, workout.SetInput{Weight: 70, Reps: 8})
	require.NoError(t, err)
	require.NotZero(t, set.ID)

	_, err = svc.Pause(ctx, 1, s.ID, "phone")
	require.NoError(t, err)

	active, err := store.Active(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, workout.StatusPaused, active.Status)
	require.Len(t, active.Pauses, 1)
	assert.Nil(t, active.Pauses[0].ResumedAt)

	result, err := svc.Complete(ctx, 1, s.ID, workout.CompletionInput{Rating: ptr(9), Feedback: "good pump"})
	require.NoError(t, err)
	assert.True(t, result.Session.FollowedRoutine)
	require.NotNil(t, result.ResumedPause)

	stored, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, workout.StatusCompleted, stored.Status)
	assert.Equal(t, "good pump", stored.Feedback)
	assert.Equal(t, 9, *stored.Rating)
	assert.Equal(t, 560.0, stored.Totals.Volume)
	assert.True(t, stored.FollowedRoutine)
	require.Len(t, stored.Slots, 1)
	assert.True(t, stored.Slots[0].Finalized)
	require.Len(t, stored.Slots[0].Sets, 1)
	assert.True(t, stored.Slots[0].Sets[0].PersonalRecord)
	assert.Equal(t, workout.PRKindWeight, stored.Slots[0].Sets[0].PRKind)
	require.Len(t, stored.Pauses, 1)
	assert.Equal(t, result.ResumedPause.Duration, stored.Pauses[0].Duration)

	_, err = store.Active(ctx, 1)
	assert.ErrorIs(t, err, workout.ErrSessionNotFound)
}

func TestStore_PersonalRecordsAgainstHistory(t *testing.T) {
	store, shutdown := testStoreSetup(t)
	defer shutdown()

	ctx := context.Background()
	now := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, &now)

	session := func(weight float64, reps int) *workout.CompletionResult {
		s, err := svc.Start(ctx, workout.StartParams{OwnerID: 2})
		require.NoError(t, err)
		slot, err := svc.AddSlot(ctx, 2, s.ID, workout.SlotInput{ExerciseID: 20})
		require.NoError(t, err)
		_, err = svc.RecordSet(ctx, 2, s.ID, slot.ID, workout.SetInput{Weight: weight, Reps: reps})
		require.NoError(t, err)
		result, err := svc.Complete(ctx, 2, s.ID, workout.CompletionInput{})
		require.NoError(t, err)
		return result
	}

	session(80, 8)
	weightPR := session(90, 6)
	require.Len(t, weightPR.Records, 1)
	assert.Equal(t, workout.PRKindWeight, weightPR.Records[0].Kind)

	repsPR := session(80, 10)
	require.Len(t, repsPR.Records, 1)
	assert.Equal(t, workout.PRKindReps, repsPR.Records[0].Kind)

	tie := session(90, 6)
	assert.Empty(t, tie.Records)

	history, err := store.ExerciseHistory(ctx, 2, 20, tie.Session.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	records, err := store.PersonalRecords(ctx, 2, ptr(int64(20)))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, workout.PRKindReps, records[0].Kind)

	suggested, err := svc.SuggestWeight(ctx, 2, 20)
	require.NoError(t, err)
	require.NotNil(t, suggested)
	assert.Equal(t, 90.0, *suggested)
}

func TestStore_SingleActiveSessionUnderRace(t *testing.T) {
	store, shutdown := testStoreSetup(t)
	defer shutdown()

	ctx := context.Background()
	now := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	svc := workout.NewService(store, nil, metrics.NewTestManager())
	svc.SetClock(func() time.Time { return now })

	const attempts = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		started   int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Start(ctx, workout.StartParams{OwnerID: 3})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				started++
			case errors.Is(err, workout.ErrActiveSessionExists):
				conflicts++
			default:
				t.Errorf("unexpected start error: %s", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
	assert.Equal(t, attempts-1, conflicts)
}

func TestStore_RollbackOnError(t *testing.T) {
	store, shutdown := testStoreSetup(t)
	defer shutdown()

	ctx := context.Background()
	now := time.Now().UTC()
	s, err := workout.NewSession(workout.StartParams{OwnerID: 4, Name: "Legs"}, nil, now)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithTx(ctx, func(ctx context.Context, tx workout.Tx) error {
		if err := tx.InsertSession(ctx, s); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, workout.ErrSessionNotFound)
	_, err = store.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, workout.ErrSessionNotFound)
}

func TestStore_ListAndPurge(t *testing.T) {
	store, shutdown := testStoreSetup(t)
	defer shutdown()

	ctx := context.Background()
	now := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, &now)

	for i := 0; i < 3; i++ {
		s, err := svc.Start(ctx, workout.StartParams{OwnerID: 5})
		require.NoError(t, err)
		_, err = svc.Abandon(ctx, 5, s.ID)
		require.NoError(t, err)
	}
	last, err := svc.Start(ctx, workout.StartParams{OwnerID: 5})
	require.NoError(t, err)

	all, err := store.List(ctx, 5, workout.ListParams{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, last.ID, all[0].ID)

	abandoned := workout.StatusAbandoned
	page, err := store.List(ctx, 5, workout.ListParams{Status: &abandoned, Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	deleted, err := svc.PurgeHistory(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	all, err = store.List(ctx, 5, workout.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func ptr[T any](v T) *T {
	return &v
}
