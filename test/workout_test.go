//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/gymsession/internal/workout"
)

type completeResponse struct {
	Summary workout.SessionSummary `json:"summary"`
	Records []workout.RecordHit    `json:"records"`
}

func (s *IntegrationTestSuite) insertTemplate() int64 {
	var templateID int64
	s.Require().NoError(s.DB.QueryRow(
		`INSERT INTO routine_template (name) VALUES ('Upper A') RETURNING id`,
	).Scan(&templateID))

	_, err := s.DB.Exec(`
		INSERT INTO routine_template_slot (template_id, exercise_id, position, sets, reps, suggested_weight)
		VALUES ($1, 100, 1, 2, 5, 80), ($1, 101, 2, 1, 10, NULL)`,
		templateID,
	)
	s.Require().NoError(err)
	return templateID
}

func (s *IntegrationTestSuite) TestWorkout_RoutineSession() {
	ctx := context.Background()
	t := s.T()
	const owner = int64(11)

	templateID := s.insertTemplate()

	var started workout.SessionSummary
	doJSON(ctx, t, s.httpClient, "POST", "/workouts", owner,
		map[string]any{"templateId": templateID}, http.StatusCreated, &started)
	s.Equal(workout.KindRoutineBased, started.Kind)
	s.Equal("Upper A", started.DisplayName)

	// a second session is refused while this one is active
	doJSON(ctx, t, s.httpClient, "POST", "/workouts", owner, nil, http.StatusConflict, nil)

	var full workout.Session
	doJSON(ctx, t, s.httpClient, "GET", fmt.Sprintf("/workouts/%s?view=full", started.ID), owner, nil, http.StatusOK, &full)
	s.Require().Len(full.Slots, 2)

	for i := 0; i < 2; i++ {
		doJSON(ctx, t, s.httpClient, "POST",
			fmt.Sprintf("/workouts/%s/slots/%d/sets", started.ID, full.Slots[0].ID), owner,
			workout.SetInput{Weight: 80, Reps: 5}, http.StatusCreated, nil)
	}
	doJSON(ctx, t, s.httpClient, "POST",
		fmt.Sprintf("/workouts/%s/slots/%d/sets", started.ID, full.Slots[1].ID), owner,
		workout.SetInput{Weight: 20, Reps: 10}, http.StatusCreated, nil)

	doJSON(ctx, t, s.httpClient, "POST", fmt.Sprintf("/workouts/%s/pause", started.ID), owner,
		map[string]string{"reason": "water"}, http.StatusOK, nil)

	var completed completeResponse
	doJSON(ctx, t, s.httpClient, "POST", fmt.Sprintf("/workouts/%s/complete", started.ID), owner,
		workout.CompletionInput{Feedback: "solid"}, http.StatusOK, &completed)
	s.Equal(workout.StatusCompleted, completed.Summary.Status)
	s.True(completed.Summary.FollowedRoutine)
	s.Equal(1000.0, completed.Summary.TotalVolume)
	s.Equal(3, completed.Summary.TotalSetsCompleted)
	// first sets ever for both exercises
	s.Len(completed.Records, 2)

	var status string
	s.Require().NoError(s.DB.QueryRow(
		`SELECT status FROM workout_session WHERE id = $1`, started.ID,
	).Scan(&status))
	s.Equal("completed", status)

	var openPauses int
	s.Require().NoError(s.DB.QueryRow(
		`SELECT count(*) FROM workout_pause WHERE session_id = $1 AND resumed_at IS NULL`, started.ID,
	).Scan(&openPauses))
	s.Zero(openPauses)

	var records []workout.PersonalRecord
	doJSON(ctx, t, s.httpClient, "GET", "/workouts/records?exerciseId=100", owner, nil, http.StatusOK, &records)
	s.Require().Len(records, 1)
	s.Equal(workout.PRKindWeight, records[0].Kind)

	// other owners see nothing of it
	doJSON(ctx, t, s.httpClient, "GET", fmt.Sprintf("/workouts/%s", started.ID), owner+1, nil, http.StatusNotFound, nil)
}

func (s *IntegrationTestSuite) TestWorkout_HistoryAndPurge() {
	ctx := context.Background()
	t := s.T()
	const owner = int64(12)

	for _, weight := range []float64{60, 70} {
		var started workout.SessionSummary
		doJSON(ctx, t, s.httpClient, "POST", "/workouts", owner, map[string]string{"name": "Squats"}, http.StatusCreated, &started)

		var slot workout.Slot
		doJSON(ctx, t, s.httpClient, "POST", fmt.Sprintf("/workouts/%s/slots", started.ID), owner,
			workout.SlotInput{ExerciseID: 200}, http.StatusCreated, &slot)
		doJSON(ctx, t, s.httpClient, "POST", fmt.Sprintf("/workouts/%s/slots/%d/sets", started.ID, slot.ID), owner,
			workout.SetInput{Weight: weight, Reps: 5}, http.StatusCreated, nil)
		doJSON(ctx, t, s.httpClient, "POST", fmt.Sprintf("/workouts/%s/complete", started.ID), owner,
			nil, http.StatusOK, nil)
	}

	var suggestion struct {
		Weight *float64 `json:"weight"`
	}
	doJSON(ctx, t, s.httpClient, "GET", "/workouts/suggest/200", owner, nil, http.StatusOK, &suggestion)
	s.Require().NotNil(suggestion.Weight)
	s.Equal(70.0, *suggestion.Weight)

	var list []workout.SessionSummary
	doJSON(ctx, t, s.httpClient, "GET", "/workouts?status=completed", owner, nil, http.StatusOK, &list)
	s.Len(list, 2)

	doJSON(ctx, t, s.httpClient, "DELETE", "/workouts/history", owner, nil, http.StatusOK, nil)

	var left int
	s.Require().NoError(s.DB.QueryRow(
		`SELECT count(*) FROM workout_session WHERE owner_id = $1`, owner,
	).Scan(&left))
	s.Zero(left)
}
