package workout

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindRoutineBased Kind = "routine_based"
	KindFreeStyle    Kind = "free_style"
)

func (k Kind) IsValid() bool {
	return k == KindRoutineBased || k == KindFreeStyle
}

type Totals struct {
	Volume             float64 `json:"volume"`
	SetsCompleted      int     `json:"setsCompleted"`
	ExercisesCompleted int     `json:"exercisesCompleted"`
	AverageIntensity   float64 `json:"averageIntensity"`
	DurationSeconds    int64   `json:"durationSeconds"`
}

// Session is a single tracked workout and the aggregate root of its slots,
// sets and pauses. Status changes only through the methods below.
type Session struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         int64      `json:"ownerId"`
	TemplateID      *int64     `json:"templateId,omitempty"`
	Kind            Kind       `json:"kind"`
	Name            string     `json:"name"`
	Status          Status     `json:"status"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	Rating          *int       `json:"rating,omitempty"`
	Feedback        string     `json:"feedback,omitempty"`
	Totals          Totals     `json:"totals"`
	FollowedRoutine bool       `json:"followedRoutine"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Slots  []*Slot       `json:"slots"`
	Pauses []*PauseEvent `json:"pauses"`
}

type StartParams struct {
	OwnerID    int64  `json:"ownerId"`
	TemplateID *int64 `json:"templateId,omitempty"`
	Name       string `json:"name,omitempty"`
}

// NewSession builds an in-progress session. A routine based one gets a copy of
// every template slot, keeping positions, grouping and prescription.
func NewSession(params StartParams, template *RoutineTemplate, now time.Time) (*Session, error) {
	s := &Session{
		ID:        uuid.New(),
		OwnerID:   params.OwnerID,
		Kind:      KindFreeStyle,
		Name:      strings.TrimSpace(params.Name),
		Status:    StatusInProgress,
		StartedAt: now,
		UpdatedAt: now,
	}

	v := &validator{entity: "session"}
	v.check(params.OwnerID > 0, "ownerId", "required")
	if params.TemplateID != nil {
		s.Kind = KindRoutineBased
		s.TemplateID = clonePtr(params.TemplateID)
		v.check(template != nil && template.ID == *params.TemplateID, "templateId", "routine template %d not provided", *params.TemplateID)
		if s.Name == "" && template != nil {
			s.Name = template.Name
		}
	} else {
		v.check(s.Name != "", "name", "required for a free style session")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if s.Kind == KindRoutineBased {
		templateSlots := make([]TemplateSlot, len(template.Slots))
		copy(templateSlots, template.Slots)
		sort.SliceStable(templateSlots, func(i, j int) bool {
			return templateSlots[i].Position < templateSlots[j].Position
		})
		for _, ts := range templateSlots {
			position := ts.Position
			if _, err := s.attachSlot(SlotInput{
				ExerciseID:      ts.ExerciseID,
				TemplateSlotID:  &ts.ID,
				Position:        &position,
				GroupKind:       ts.GroupKind,
				GroupPosition:   clonePtr(ts.GroupPosition),
				TargetSets:      clonePtr(ts.Sets),
				TargetReps:      clonePtr(ts.Reps),
				SuggestedWeight: clonePtr(ts.SuggestedWeight),
				RestSeconds:     clonePtr(ts.RestSeconds),
			}, now); err != nil {
				return nil, fmt.Errorf("copy template slot %d: %w", ts.ID, err)
			}
		}
	}

	return s, nil
}

func (s *Session) IsActive() bool {
	return s.Status.IsActive()
}

func (s *Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "Workout " + s.StartedAt.Format("2006-01-02")
}

func (s *Session) HasExercises() bool {
	return len(s.Slots) > 0
}

// TotalVolume is the stored total once completed, the live sum before that.
func (s *Session) TotalVolume() float64 {
	if s.Status == StatusCompleted {
		return s.Totals.Volume
	}
	var volume float64
	for _, slot := range s.Slots {
		volume += slot.Volume()
	}
	return volume
}

func (s *Session) PauseTracker() *PauseTracker {
	return &PauseTracker{
		sessionID: s.ID,
		events:    &s.Pauses,
	}
}

func (s *Session) ActivePause() *PauseEvent {
	return s.PauseTracker().ActivePause()
}

func (s *Session) Slot(id int64) *Slot {
	for _, slot := range s.Slots {
		if slot.ID == id {
			return slot
		}
	}
	return nil
}

func (s *Session) FindSet(id int64) (*Slot, *Set) {
	for _, slot := range s.Slots {
		if set := slot.Set(id); set != nil {
			return slot, set
		}
	}
	return nil, nil
}

func (s *Session) Pause(now time.Time, reason string) (*PauseEvent, error) {
	next, err := s.Status.Next(ActionPause)
	if err != nil {
		return nil, err
	}
	p, err := s.PauseTracker().Pause(now, reason)
	if err != nil {
		return nil, err
	}
	s.Status = next
	s.UpdatedAt = now
	return p, nil
}

func (s *Session) Resume(now time.Time) (*PauseEvent, error) {
	next, err := s.Status.Next(ActionResume)
	if err != nil {
		return nil, err
	}
	p, err := s.PauseTracker().Resume(now)
	if err != nil {
		return nil, err
	}
	s.Status = next
	s.UpdatedAt = now
	return p, nil
}

func (s *Session) Abandon(now time.Time) error {
	next, err := s.Status.Next(ActionAbandon)
	if err != nil {
		return err
	}
	s.Status = next
	s.CompletedAt = &now
	s.UpdatedAt = now
	return nil
}

func (s *Session) AddSlot(in SlotInput, now time.Time) (*Slot, error) {
	if _, err := s.Status.Next(ActionAddSlot); err != nil {
		return nil, err
	}
	return s.attachSlot(in, now)
}

// attachSlot assigns positions, validates and enforces the superset size limit
// before the slot becomes part of the session.
func (s *Session) attachSlot(in SlotInput, now time.Time) (*Slot, error) {
	groupKind := in.GroupKind
	if groupKind == "" {
		groupKind = GroupRegular
	}

	slot := &Slot{
		SessionID:       s.ID,
		ExerciseID:      in.ExerciseID,
		TemplateSlotID:  clonePtr(in.TemplateSlotID),
		GroupKind:       groupKind,
		GroupPosition:   clonePtr(in.GroupPosition),
		TargetSets:      clonePtr(in.TargetSets),
		TargetReps:      clonePtr(in.TargetReps),
		SuggestedWeight: clonePtr(in.SuggestedWeight),
		RestSeconds:     clonePtr(in.RestSeconds),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if in.Position != nil {
		slot.Position = *in.Position
	} else {
		slot.Position = s.nextSlotPosition()
	}
	if slot.GroupKind != GroupRegular && slot.GroupPosition == nil {
		next := s.nextGroupPosition(slot.GroupKind)
		slot.GroupPosition = &next
	}

	if err := slot.Validate(); err != nil {
		return nil, err
	}

	v := &validator{entity: "slot"}
	for _, other := range s.Slots {
		v.check(other.Position != slot.Position, "position", "position %d already taken", slot.Position)
	}
	if slot.GroupKind == GroupSuperset {
		members := s.groupMembers(GroupSuperset, *slot.GroupPosition)
		v.check(members < MaxSupersetSize, "groupPosition", "superset %d already has %d slots", *slot.GroupPosition, members)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	s.Slots = append(s.Slots, slot)
	s.UpdatedAt = now
	return slot, nil
}

func (s *Session) nextSlotPosition() int {
	highest := 0
	for _, slot := range s.Slots {
		if slot.Position > highest {
			highest = slot.Position
		}
	}
	return highest + 1
}

func (s *Session) nextGroupPosition(kind GroupKind) int {
	highest := 0
	for _, slot := range s.Slots {
		if slot.GroupKind == kind && slot.GroupPosition != nil && *slot.GroupPosition > highest {
			highest = *slot.GroupPosition
		}
	}
	return highest + 1
}

func (s *Session) groupMembers(kind GroupKind, groupPosition int) int {
	members := 0
	for _, slot := range s.Slots {
		if slot.GroupKind == kind && slot.GroupPosition != nil && *slot.GroupPosition == groupPosition {
			members++
		}
	}
	return members
}

// RecordSet logs a set that was just performed; it is completed right away.
func (s *Session) RecordSet(slotID int64, in SetInput, now time.Time) (*Set, error) {
	slot, err := s.writableSlot(slotID)
	if err != nil {
		return nil, err
	}

	set := newSet(slot.ID, slot.nextSetNumber(), in)
	set.Completed = true
	set.CompletedAt = &now
	if err := set.Validate(); err != nil {
		return nil, err
	}

	slot.Sets = append(slot.Sets, set)
	slot.UpdatedAt = now
	s.UpdatedAt = now
	return set, nil
}

// PlanSet adds a set that still has to be performed.
func (s *Session) PlanSet(slotID int64, in SetInput, now time.Time) (*Set, error) {
	slot, err := s.writableSlot(slotID)
	if err != nil {
		return nil, err
	}

	set := newSet(slot.ID, slot.nextSetNumber(), in)
	if err := set.Validate(); err != nil {
		return nil, err
	}

	slot.Sets = append(slot.Sets, set)
	slot.UpdatedAt = now
	s.UpdatedAt = now
	return set, nil
}

func (s *Session) StartSet(setID int64, now time.Time) (*Set, error) {
	set, err := s.writableSet(setID)
	if err != nil {
		return nil, err
	}
	if err := set.Start(now); err != nil {
		return nil, err
	}
	s.UpdatedAt = now
	return set, nil
}

// CompleteSet completes a planned set. Without an override the measurements are
// kept exactly as planned.
func (s *Session) CompleteSet(setID int64, override *SetOverride, now time.Time) (*Set, error) {
	set, err := s.writableSet(setID)
	if err != nil {
		return nil, err
	}
	if override == nil {
		err = set.MarkAsCompleted(now)
	} else {
		err = set.Complete(now, override)
	}
	if err != nil {
		return nil, err
	}
	s.UpdatedAt = now
	return set, nil
}

func (s *Session) writableSlot(slotID int64) (*Slot, error) {
	if _, err := s.Status.Next(ActionRecordSet); err != nil {
		return nil, err
	}
	slot := s.Slot(slotID)
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}

func (s *Session) writableSet(setID int64) (*Set, error) {
	if _, err := s.Status.Next(ActionRecordSet); err != nil {
		return nil, err
	}
	_, set := s.FindSet(setID)
	if set == nil {
		return nil, ErrSetNotFound
	}
	return set, nil
}

func (s *Session) Clone() *Session {
	c := *s
	c.TemplateID = clonePtr(s.TemplateID)
	c.CompletedAt = clonePtr(s.CompletedAt)
	c.Rating = clonePtr(s.Rating)
	c.Slots = make([]*Slot, 0, len(s.Slots))
	for _, slot := range s.Slots {
		c.Slots = append(c.Slots, slot.clone())
	}
	c.Pauses = make([]*PauseEvent, 0, len(s.Pauses))
	for _, p := range s.Pauses {
		c.Pauses = append(c.Pauses, p.clone())
	}
	return &c
}
