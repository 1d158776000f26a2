package workout

import (
	"context"
	"time"
)

type CompletionInput struct {
	Rating   *int   `json:"rating,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

func (in CompletionInput) Validate() error {
	v := &validator{entity: "completion"}
	if in.Rating != nil {
		v.check(*in.Rating >= 1 && *in.Rating <= 10, "rating", "must be between 1 and 10")
	}
	v.check(len(in.Feedback) <= 2000, "feedback", "must be at most 2000 characters")
	return v.err()
}

type CompletionResult struct {
	Session      *Session    `json:"session"`
	ResumedPause *PauseEvent `json:"resumedPause,omitempty"`
	Records      []RecordHit `json:"records"`
}

type CompletionAggregator struct {
	detector *PersonalRecordDetector
}

func NewCompletionAggregator(detector *PersonalRecordDetector) *CompletionAggregator {
	return &CompletionAggregator{
		detector: detector,
	}
}

// Complete resumes a paused session, finalizes every slot, computes totals,
// marks the session completed and flags personal records, in that order.
// It mutates s; on error the caller must throw s away.
func (a *CompletionAggregator) Complete(ctx context.Context, s *Session, in CompletionInput, now time.Time) (*CompletionResult, error) {
	next, err := s.Status.Next(ActionComplete)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var resumed *PauseEvent
	if s.Status == StatusPaused {
		now = implicitResumeTime(s.ActivePause(), now)
		resumed, err = s.Resume(now)
		if err != nil {
			return nil, err
		}
	}

	for _, slot := range s.Slots {
		slot.Finalize(now)
	}

	s.Totals = computeTotals(s, now)
	s.FollowedRoutine = followedRoutine(s.Slots)
	s.Status = next
	s.CompletedAt = &now
	s.UpdatedAt = now
	s.Rating = clonePtr(in.Rating)
	s.Feedback = in.Feedback

	records, err := a.detector.Run(ctx, s)
	if err != nil {
		return nil, err
	}

	return &CompletionResult{
		Session:      s,
		ResumedPause: resumed,
		Records:      records,
	}, nil
}

func computeTotals(s *Session, now time.Time) Totals {
	var totals Totals
	var ratingSum float64
	ratedSlots := 0

	for _, slot := range s.Slots {
		totals.Volume += slot.Volume()
		totals.SetsCompleted += slot.CompletedSetCount()
		if slot.IsCompleted() {
			totals.ExercisesCompleted++
		}
		if avg, ok := slot.AverageRating(); ok {
			ratingSum += avg
			ratedSlots++
		}
	}

	totals.AverageIntensity = ratingSum / float64(max(ratedSlots, 1))
	totals.DurationSeconds = activeSeconds(s, now)
	return totals
}

// followedRoutine is vacuously true for a session without slots.
func followedRoutine(slots []*Slot) bool {
	for _, slot := range slots {
		if !slot.IsCompletedAsPrescribed() {
			return false
		}
	}
	return true
}

// activeSeconds is the time between start and end minus the time spent paused.
func activeSeconds(s *Session, end time.Time) int64 {
	active := end.Sub(s.StartedAt) - s.PauseTracker().TotalPaused(end)
	if active < 0 {
		return 0
	}
	return int64(active.Seconds())
}

// implicitResumeTime keeps the closing pause non-empty when the clock did not
// move past its start (same instant, or the wall clock stepped back).
// Postgres keeps microseconds, so that is the smallest step.
func implicitResumeTime(active *PauseEvent, now time.Time) time.Time {
	if active == nil || now.After(active.PausedAt) {
		return now
	}
	return active.PausedAt.Add(time.Microsecond)
}
