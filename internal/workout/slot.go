package workout

import (
	"time"

	"github.com/google/uuid"
)

type GroupKind string

const (
	GroupRegular  GroupKind = "regular"
	GroupSuperset GroupKind = "superset"
	GroupCircuit  GroupKind = "circuit"
)

// MaxSupersetSize is the most slots a single superset group may hold.
const MaxSupersetSize = 2

func (k GroupKind) IsValid() bool {
	switch k {
	case GroupRegular, GroupSuperset, GroupCircuit:
		return true
	default:
		return false
	}
}

// Slot is one occurrence of an exercise within a session, owning its sets.
type Slot struct {
	ID              int64     `json:"id"`
	SessionID       uuid.UUID `json:"sessionId"`
	ExerciseID      int64     `json:"exerciseId"`
	TemplateSlotID  *int64    `json:"templateSlotId,omitempty"`
	Position        int       `json:"position"`
	GroupKind       GroupKind `json:"groupKind"`
	GroupPosition   *int      `json:"groupPosition,omitempty"`
	TargetSets      *int      `json:"targetSets,omitempty"`
	TargetReps      *int      `json:"targetReps,omitempty"`
	SuggestedWeight *float64  `json:"suggestedWeight,omitempty"`
	RestSeconds     *int      `json:"restSeconds,omitempty"`

	Finalized             bool `json:"finalized"`
	CompletedAsPrescribed bool `json:"completedAsPrescribed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Sets []*Set `json:"sets"`
}

type SlotInput struct {
	ExerciseID      int64     `json:"exerciseId"`
	TemplateSlotID  *int64    `json:"templateSlotId,omitempty"`
	Position        *int      `json:"position,omitempty"`
	GroupKind       GroupKind `json:"groupKind,omitempty"`
	GroupPosition   *int      `json:"groupPosition,omitempty"`
	TargetSets      *int      `json:"targetSets,omitempty"`
	TargetReps      *int      `json:"targetReps,omitempty"`
	SuggestedWeight *float64  `json:"suggestedWeight,omitempty"`
	RestSeconds     *int      `json:"restSeconds,omitempty"`
}

func (s *Slot) CompletedSets() []*Set {
	var completed []*Set
	for _, set := range s.Sets {
		if set.Completed {
			completed = append(completed, set)
		}
	}
	return completed
}

func (s *Slot) CompletedSetCount() int {
	return len(s.CompletedSets())
}

func (s *Slot) IsCompleted() bool {
	return s.TargetSets != nil && s.CompletedSetCount() >= *s.TargetSets
}

// IsCompletedAsPrescribed requires exactly the target number of sets, every one
// at the target reps and, when a weight was suggested, at that weight.
func (s *Slot) IsCompletedAsPrescribed() bool {
	if !s.IsCompleted() {
		return false
	}
	completed := s.CompletedSets()
	if len(completed) != *s.TargetSets {
		return false
	}
	for _, set := range completed {
		if s.TargetReps == nil || set.Reps != *s.TargetReps {
			return false
		}
		if s.SuggestedWeight != nil && set.Weight != *s.SuggestedWeight {
			return false
		}
	}
	return true
}

func (s *Slot) IsInProgress() bool {
	return s.CompletedSetCount() > 0 && !s.IsCompleted()
}

func (s *Slot) Volume() float64 {
	var volume float64
	for _, set := range s.Sets {
		volume += set.Volume()
	}
	return volume
}

func (s *Slot) AverageWeight() float64 {
	completed := s.CompletedSets()
	if len(completed) == 0 {
		return 0
	}
	var sum float64
	for _, set := range completed {
		sum += set.Weight
	}
	return sum / float64(len(completed))
}

func (s *Slot) AverageReps() float64 {
	completed := s.CompletedSets()
	if len(completed) == 0 {
		return 0
	}
	sum := 0
	for _, set := range completed {
		sum += set.Reps
	}
	return float64(sum) / float64(len(completed))
}

// AverageRating averages the ratings of completed sets that have one.
// ok is false when no completed set was rated.
func (s *Slot) AverageRating() (avg float64, ok bool) {
	sum, rated := 0, 0
	for _, set := range s.CompletedSets() {
		if set.Rating == nil {
			continue
		}
		sum += *set.Rating
		rated++
	}
	if rated == 0 {
		return 0, false
	}
	return float64(sum) / float64(rated), true
}

// Finalize fixes CompletedAsPrescribed. Later calls are no-ops and return false.
func (s *Slot) Finalize(now time.Time) bool {
	if s.Finalized {
		return false
	}
	s.CompletedAsPrescribed = s.IsCompletedAsPrescribed()
	s.Finalized = true
	s.UpdatedAt = now
	return true
}

func (s *Slot) Set(id int64) *Set {
	for _, set := range s.Sets {
		if set.ID == id {
			return set
		}
	}
	return nil
}

func (s *Slot) nextSetNumber() int {
	highest := 0
	for _, set := range s.Sets {
		if set.Number > highest {
			highest = set.Number
		}
	}
	return highest + 1
}

func (s *Slot) Validate() error {
	v := &validator{entity: "slot"}
	v.check(s.ExerciseID > 0, "exerciseId", "required")
	v.check(s.Position >= 1, "position", "must be at least 1")
	v.check(s.GroupKind.IsValid(), "groupKind", "unknown group kind %q", s.GroupKind)
	if s.GroupKind == GroupRegular {
		v.check(s.GroupPosition == nil, "groupPosition", "not allowed for a regular slot")
	} else if s.GroupKind.IsValid() {
		v.check(s.GroupPosition != nil, "groupPosition", "required for a %s slot", s.GroupKind)
		if s.GroupPosition != nil {
			v.check(*s.GroupPosition >= 1, "groupPosition", "must be at least 1")
		}
	}
	if s.TargetSets != nil {
		v.check(*s.TargetSets >= 1, "targetSets", "must be at least 1")
	}
	if s.TargetReps != nil {
		v.check(*s.TargetReps >= 1, "targetReps", "must be at least 1")
	}
	if s.SuggestedWeight != nil {
		v.check(*s.SuggestedWeight >= 0, "suggestedWeight", "must not be negative")
	}
	if s.RestSeconds != nil {
		v.check(*s.RestSeconds >= 0, "restSeconds", "must not be negative")
	}
	return v.err()
}

func (s *Slot) clone() *Slot {
	c := *s
	c.TemplateSlotID = clonePtr(s.TemplateSlotID)
	c.GroupPosition = clonePtr(s.GroupPosition)
	c.TargetSets = clonePtr(s.TargetSets)
	c.TargetReps = clonePtr(s.TargetReps)
	c.SuggestedWeight = clonePtr(s.SuggestedWeight)
	c.RestSeconds = clonePtr(s.RestSeconds)
	c.Sets = make([]*Set, 0, len(s.Sets))
	for _, set := range s.Sets {
		c.Sets = append(c.Sets, set.clone())
	}
	return &c
}
