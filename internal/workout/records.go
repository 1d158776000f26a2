package workout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one completed normal set from an earlier, completed session.
type HistoryEntry struct {
	SessionID   uuid.UUID `json:"sessionId"`
	SetID       int64     `json:"setId"`
	Weight      float64   `json:"weight"`
	Reps        int       `json:"reps"`
	CompletedAt time.Time `json:"completedAt"`
}

func (e HistoryEntry) Volume() float64 {
	return e.Weight * float64(e.Reps)
}

// HistoryIndex is the read side over finished sessions, keyed by owner and exercise.
// It never locks or writes the sets it returns.
type HistoryIndex interface {
	// ExerciseHistory returns completed normal sets of the owner's completed
	// sessions for the exercise, leaving out the given session.
	ExerciseHistory(ctx context.Context, ownerID, exerciseID int64, excludeSessionID uuid.UUID) ([]HistoryEntry, error)
}

// RecordHit describes a set flagged during completion.
type RecordHit struct {
	SlotID     int64   `json:"slotId"`
	SetID      int64   `json:"setId"`
	ExerciseID int64   `json:"exerciseId"`
	Kind       PRKind  `json:"kind"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
}

// PersonalRecord is a flagged set as listed for an owner.
type PersonalRecord struct {
	SessionID  uuid.UUID `json:"sessionId"`
	SlotID     int64     `json:"slotId"`
	SetID      int64     `json:"setId"`
	ExerciseID int64     `json:"exerciseId"`
	Kind       PRKind    `json:"kind"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	AchievedAt time.Time `json:"achievedAt"`
}

func (r PersonalRecord) Volume() float64 {
	return r.Weight * float64(r.Reps)
}

// DetectPersonalRecord compares a set against the history of its exercise.
// Rules are tried in order and the first one wins: heavier than ever, more reps
// than ever at exactly this weight, more volume than ever. Ties never count.
// Only completed normal sets that are not flagged yet are considered.
func DetectPersonalRecord(set *Set, history []HistoryEntry) (PRKind, bool) {
	if set == nil || !set.Completed || set.Kind != SetKindNormal || set.PersonalRecord {
		return "", false
	}

	var maxWeight, maxVolume float64
	maxRepsAtWeight := 0
	for _, h := range history {
		if h.Weight > maxWeight {
			maxWeight = h.Weight
		}
		if h.Weight == set.Weight && h.Reps > maxRepsAtWeight {
			maxRepsAtWeight = h.Reps
		}
		if v := h.Volume(); v > maxVolume {
			maxVolume = v
		}
	}

	switch {
	case set.Weight > maxWeight:
		return PRKindWeight, true
	case set.Reps > maxRepsAtWeight:
		return PRKindReps, true
	case set.Volume() > maxVolume:
		return PRKindVolume, true
	default:
		return "", false
	}
}

// applyPersonalRecord is the only write path for the record fields. It does not
// run detection again.
func applyPersonalRecord(set *Set, kind PRKind) error {
	if !kind.IsValid() {
		return NewValidationError("set", FieldError{Field: "prKind", Message: fmt.Sprintf("unknown kind %q", kind)})
	}
	if set.PersonalRecord {
		return ErrAlreadyRecorded
	}
	set.PersonalRecord = true
	set.PRKind = kind
	return nil
}

type PersonalRecordDetector struct {
	history HistoryIndex
}

func NewPersonalRecordDetector(history HistoryIndex) *PersonalRecordDetector {
	return &PersonalRecordDetector{
		history: history,
	}
}

// Run flags every qualifying set of the session. History is fetched once per
// exercise, and since it excludes this session, sets of the same workout are
// never compared with each other.
func (d *PersonalRecordDetector) Run(ctx context.Context, s *Session) ([]RecordHit, error) {
	histories := make(map[int64][]HistoryEntry)
	var hits []RecordHit

	for _, slot := range s.Slots {
		for _, set := range slot.Sets {
			if !set.Completed || set.Kind != SetKindNormal || set.PersonalRecord {
				continue
			}

			history, ok := histories[slot.ExerciseID]
			if !ok {
				var err error
				history, err = d.history.ExerciseHistory(ctx, s.OwnerID, slot.ExerciseID, s.ID)
				if err != nil {
					return nil, fmt.Errorf("exercise %d history: %w", slot.ExerciseID, err)
				}
				histories[slot.ExerciseID] = history
			}

			kind, isRecord := DetectPersonalRecord(set, history)
			if !isRecord {
				continue
			}
			if err := applyPersonalRecord(set, kind); err != nil {
				return nil, fmt.Errorf("apply record to set %d: %w", set.ID, err)
			}
			hits = append(hits, RecordHit{
				SlotID:     slot.ID,
				SetID:      set.ID,
				ExerciseID: slot.ExerciseID,
				Kind:       kind,
				Weight:     set.Weight,
				Reps:       set.Reps,
			})
		}
	}

	return hits, nil
}
