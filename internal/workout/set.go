package workout

import (
	"time"
)

type SetKind string

const (
	SetKindWarmUp  SetKind = "warm_up"
	SetKindNormal  SetKind = "normal"
	SetKindFailure SetKind = "failure"
	SetKindDropSet SetKind = "drop_set"
)

func (k SetKind) IsValid() bool {
	switch k {
	case SetKindWarmUp, SetKindNormal, SetKindFailure, SetKindDropSet:
		return true
	default:
		return false
	}
}

// PRKind tells which rule flagged a set as a personal record.
type PRKind string

const (
	PRKindWeight PRKind = "weight"
	PRKindReps   PRKind = "reps"
	PRKindVolume PRKind = "volume"
)

func (k PRKind) IsValid() bool {
	switch k {
	case PRKindWeight, PRKindReps, PRKindVolume:
		return true
	default:
		return false
	}
}

// Set is one performed (or planned) set of an exercise slot.
type Set struct {
	ID          int64      `json:"id"`
	SlotID      int64      `json:"slotId"`
	Number      int        `json:"number"`
	Kind        SetKind    `json:"kind"`
	Weight      float64    `json:"weight"`
	Reps        int        `json:"reps"`
	Rating      *int       `json:"rating,omitempty"`
	RestSeconds *int       `json:"restSeconds,omitempty"`
	DropWeight  *float64   `json:"dropWeight,omitempty"`
	DropReps    *int       `json:"dropReps,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// only ever written by the personal record detector
	PersonalRecord bool   `json:"personalRecord"`
	PRKind         PRKind `json:"prKind,omitempty"`
}

type SetInput struct {
	Kind        SetKind  `json:"kind"`
	Weight      float64  `json:"weight"`
	Reps        int      `json:"reps"`
	Rating      *int     `json:"rating,omitempty"`
	RestSeconds *int     `json:"restSeconds,omitempty"`
	DropWeight  *float64 `json:"dropWeight,omitempty"`
	DropReps    *int     `json:"dropReps,omitempty"`
}

// SetOverride holds the actual values performed when they differ from the plan.
type SetOverride struct {
	Reps       *int     `json:"reps,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
	DropWeight *float64 `json:"dropWeight,omitempty"`
	DropReps   *int     `json:"dropReps,omitempty"`
}

func newSet(slotID int64, number int, in SetInput) *Set {
	kind := in.Kind
	if kind == "" {
		kind = SetKindNormal
	}
	return &Set{
		SlotID:      slotID,
		Number:      number,
		Kind:        kind,
		Weight:      in.Weight,
		Reps:        in.Reps,
		Rating:      clonePtr(in.Rating),
		RestSeconds: clonePtr(in.RestSeconds),
		DropWeight:  clonePtr(in.DropWeight),
		DropReps:    clonePtr(in.DropReps),
	}
}

// Volume is zero until the set is completed.
func (s *Set) Volume() float64 {
	if !s.Completed {
		return 0
	}
	volume := s.Weight * float64(s.Reps)
	if s.Kind == SetKindDropSet && s.DropWeight != nil && s.DropReps != nil {
		volume += *s.DropWeight * float64(*s.DropReps)
	}
	return volume
}

func (s *Set) Started() bool {
	return s.StartedAt != nil
}

func (s *Set) Start(now time.Time) error {
	if s.StartedAt != nil {
		return ErrSetAlreadyStarted
	}
	s.StartedAt = &now
	return nil
}

// Complete applies the override, if any, and marks the set completed.
// The set is left untouched when the result would be invalid.
func (s *Set) Complete(now time.Time, override *SetOverride) error {
	if s.Completed {
		return ErrSetAlreadyCompleted
	}

	candidate := *s
	if override != nil {
		if override.Reps != nil {
			candidate.Reps = *override.Reps
		}
		if override.Weight != nil {
			candidate.Weight = *override.Weight
		}
		if override.DropWeight != nil {
			candidate.DropWeight = clonePtr(override.DropWeight)
		}
		if override.DropReps != nil {
			candidate.DropReps = clonePtr(override.DropReps)
		}
	}
	if err := candidate.Validate(); err != nil {
		return err
	}

	*s = candidate
	s.Completed = true
	s.CompletedAt = &now
	return nil
}

// MarkAsCompleted only flips the completion flag, measurements stay as they are.
func (s *Set) MarkAsCompleted(now time.Time) error {
	if s.Completed {
		return ErrSetAlreadyCompleted
	}
	s.Completed = true
	s.CompletedAt = &now
	return nil
}

func (s *Set) Validate() error {
	v := &validator{entity: "set"}
	v.check(s.Number >= 1, "number", "must be at least 1")
	v.check(s.Kind.IsValid(), "kind", "unknown set kind %q", s.Kind)
	v.check(s.Weight >= 0, "weight", "must not be negative")
	v.check(s.Reps >= 0, "reps", "must not be negative")
	if s.Rating != nil {
		v.check(*s.Rating >= 1 && *s.Rating <= 10, "rating", "must be between 1 and 10")
	}
	if s.RestSeconds != nil {
		v.check(*s.RestSeconds >= 0, "restSeconds", "must not be negative")
	}

	if s.Kind == SetKindDropSet {
		v.check(s.DropWeight != nil, "dropWeight", "required for a drop set")
		v.check(s.DropReps != nil, "dropReps", "required for a drop set")
		if s.DropWeight != nil {
			v.check(*s.DropWeight >= 0, "dropWeight", "must not be negative")
		}
		if s.DropReps != nil {
			v.check(*s.DropReps >= 0, "dropReps", "must not be negative")
		}
	} else {
		v.check(s.DropWeight == nil, "dropWeight", "only allowed for a drop set")
		v.check(s.DropReps == nil, "dropReps", "only allowed for a drop set")
	}

	if s.PersonalRecord {
		v.check(s.PRKind.IsValid(), "prKind", "must be one of weight, reps, volume")
	} else {
		v.check(s.PRKind == "", "prKind", "set without a personal record flag")
	}

	return v.err()
}

func (s *Set) clone() *Set {
	c := *s
	c.Rating = clonePtr(s.Rating)
	c.RestSeconds = clonePtr(s.RestSeconds)
	c.DropWeight = clonePtr(s.DropWeight)
	c.DropReps = clonePtr(s.DropReps)
	c.StartedAt = clonePtr(s.StartedAt)
	c.CompletedAt = clonePtr(s.CompletedAt)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
