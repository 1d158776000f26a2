package workout

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary is the read-only view handed to dashboards and tools.
type SessionSummary struct {
	ID                      uuid.UUID      `json:"id"`
	OwnerID                 int64          `json:"ownerId"`
	Kind                    Kind           `json:"kind"`
	Status                  Status         `json:"status"`
	DisplayName             string         `json:"displayName"`
	HasExercises            bool           `json:"hasExercises"`
	StartedAt               time.Time      `json:"startedAt"`
	CompletedAt             *time.Time     `json:"completedAt,omitempty"`
	TotalVolume             float64        `json:"totalVolume"`
	TotalDurationSeconds    int64          `json:"totalDurationSeconds"`
	TotalSetsCompleted      int            `json:"totalSetsCompleted"`
	TotalExercisesCompleted int            `json:"totalExercisesCompleted"`
	AverageIntensity        float64        `json:"averageIntensity"`
	FollowedRoutine         bool           `json:"followedRoutine"`
	Rating                  *int           `json:"rating,omitempty"`
	PersonalRecords         int            `json:"personalRecords"`
	ActivePause             *PauseEvent    `json:"activePause,omitempty"`
	Slots                   []SlotProgress `json:"slots"`
}

type SlotProgress struct {
	SlotID            int64     `json:"slotId"`
	ExerciseID        int64     `json:"exerciseId"`
	Position          int       `json:"position"`
	GroupKind         GroupKind `json:"groupKind"`
	GroupPosition     *int      `json:"groupPosition,omitempty"`
	TargetSets        *int      `json:"targetSets,omitempty"`
	TargetReps        *int      `json:"targetReps,omitempty"`
	CompletedSetCount int       `json:"completedSetCount"`
	AverageWeight     float64   `json:"averageWeight"`
	AverageReps       float64   `json:"averageReps"`
	AverageRating     *float64  `json:"averageRating,omitempty"`
	Volume            float64   `json:"volume"`
	IsCompleted       bool      `json:"isCompleted"`
	IsInProgress      bool      `json:"isInProgress"`
}

// Summary computes the view as of now. Finished sessions report their stored totals.
func (s *Session) Summary(now time.Time) SessionSummary {
	summary := SessionSummary{
		ID:              s.ID,
		OwnerID:         s.OwnerID,
		Kind:            s.Kind,
		Status:          s.Status,
		DisplayName:     s.DisplayName(),
		HasExercises:    s.HasExercises(),
		StartedAt:       s.StartedAt,
		CompletedAt:     s.CompletedAt,
		TotalVolume:     s.TotalVolume(),
		FollowedRoutine: s.FollowedRoutine,
		Rating:          s.Rating,
		ActivePause:     s.ActivePause(),
		Slots:           make([]SlotProgress, 0, len(s.Slots)),
	}

	switch {
	case s.Status == StatusCompleted:
		summary.TotalDurationSeconds = s.Totals.DurationSeconds
		summary.TotalSetsCompleted = s.Totals.SetsCompleted
		summary.TotalExercisesCompleted = s.Totals.ExercisesCompleted
		summary.AverageIntensity = s.Totals.AverageIntensity
	default:
		end := now
		if s.CompletedAt != nil {
			end = *s.CompletedAt
		}
		live := computeTotals(s, end)
		summary.TotalDurationSeconds = live.DurationSeconds
		summary.TotalSetsCompleted = live.SetsCompleted
		summary.TotalExercisesCompleted = live.ExercisesCompleted
		summary.AverageIntensity = live.AverageIntensity
	}

	for _, slot := range s.Slots {
		progress := SlotProgress{
			SlotID:            slot.ID,
			ExerciseID:        slot.ExerciseID,
			Position:          slot.Position,
			GroupKind:         slot.GroupKind,
			GroupPosition:     slot.GroupPosition,
			TargetSets:        slot.TargetSets,
			TargetReps:        slot.TargetReps,
			CompletedSetCount: slot.CompletedSetCount(),
			AverageWeight:     slot.AverageWeight(),
			AverageReps:       slot.AverageReps(),
			Volume:            slot.Volume(),
			IsCompleted:       slot.IsCompleted(),
			IsInProgress:      slot.IsInProgress(),
		}
		if avg, ok := slot.AverageRating(); ok {
			progress.AverageRating = &avg
		}
		for _, set := range slot.Sets {
			if set.PersonalRecord {
				summary.PersonalRecords++
			}
		}
		summary.Slots = append(summary.Slots, progress)
	}

	return summary
}
