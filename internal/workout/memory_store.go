package workout

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. A transaction works on a copy of
// the data which replaces the original only on commit.
// Used by tests and the service's in-memory mode.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	lastID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (m *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		sessions: make(map[uuid.UUID]*Session, len(m.sessions)),
		lastID:   m.lastID,
	}
	for id, s := range m.sessions {
		tx.sessions[id] = s.Clone()
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.sessions = tx.sessions
	m.lastID = tx.lastID
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Active(_ context.Context, ownerID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions {
		if s.OwnerID == ownerID && s.IsActive() {
			return s.Clone(), nil
		}
	}
	return nil, ErrSessionNotFound
}

func (m *MemoryStore) List(_ context.Context, ownerID int64, params ListParams) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []*Session
	for _, s := range m.sessions {
		if s.OwnerID != ownerID {
			continue
		}
		if params.Status != nil && s.Status != *params.Status {
			continue
		}
		sessions = append(sessions, s.Clone())
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})

	if params.Size <= 0 {
		return sessions, nil
	}
	page := max(params.Page, 1)
	from := (page - 1) * params.Size
	if from >= len(sessions) {
		return []*Session{}, nil
	}
	to := min(from+params.Size, len(sessions))
	return sessions[from:to], nil
}

func (m *MemoryStore) PersonalRecords(_ context.Context, ownerID int64, exerciseID *int64) ([]PersonalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]PersonalRecord, 0)
	for _, s := range m.sessions {
		if s.OwnerID != ownerID {
			continue
		}
		for _, slot := range s.Slots {
			if exerciseID != nil && slot.ExerciseID != *exerciseID {
				continue
			}
			for _, set := range slot.Sets {
				if !set.PersonalRecord {
					continue
				}
				record := PersonalRecord{
					SessionID:  s.ID,
					SlotID:     slot.ID,
					SetID:      set.ID,
					ExerciseID: slot.ExerciseID,
					Kind:       set.PRKind,
					Weight:     set.Weight,
					Reps:       set.Reps,
				}
				if set.CompletedAt != nil {
					record.AchievedAt = *set.CompletedAt
				}
				records = append(records, record)
			}
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].AchievedAt.After(records[j].AchievedAt)
	})
	return records, nil
}

func (m *MemoryStore) ExerciseHistory(_ context.Context, ownerID, exerciseID int64, excludeSessionID uuid.UUID) ([]HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return exerciseHistory(m.sessions, ownerID, exerciseID, excludeSessionID), nil
}

func exerciseHistory(sessions map[uuid.UUID]*Session, ownerID, exerciseID int64, excludeSessionID uuid.UUID) []HistoryEntry {
	var history []HistoryEntry
	for _, s := range sessions {
		if s.OwnerID != ownerID || s.ID == excludeSessionID || s.Status != StatusCompleted {
			continue
		}
		for _, slot := range s.Slots {
			if slot.ExerciseID != exerciseID {
				continue
			}
			for _, set := range slot.Sets {
				if !set.Completed || set.Kind != SetKindNormal {
					continue
				}
				entry := HistoryEntry{
					SessionID: s.ID,
					SetID:     set.ID,
					Weight:    set.Weight,
					Reps:      set.Reps,
				}
				if set.CompletedAt != nil {
					entry.CompletedAt = *set.CompletedAt
				}
				history = append(history, entry)
			}
		}
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].CompletedAt.Before(history[j].CompletedAt)
	})
	return history
}

type memoryTx struct {
	sessions map[uuid.UUID]*Session
	lastID   int64
}

func (tx *memoryTx) nextID() int64 {
	tx.lastID++
	return tx.lastID
}

func (tx *memoryTx) ExerciseHistory(_ context.Context, ownerID, exerciseID int64, excludeSessionID uuid.UUID) ([]HistoryEntry, error) {
	return exerciseHistory(tx.sessions, ownerID, exerciseID, excludeSessionID), nil
}

func (tx *memoryTx) Lock(_ context.Context, id uuid.UUID) (*Session, error) {
	s, ok := tx.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (tx *memoryTx) HasActive(_ context.Context, ownerID int64) (bool, error) {
	for _, s := range tx.sessions {
		if s.OwnerID == ownerID && s.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memoryTx) InsertSession(ctx context.Context, s *Session) error {
	if s.IsActive() {
		active, _ := tx.HasActive(ctx, s.OwnerID)
		if active {
			return ErrActiveSessionExists
		}
	}
	if _, exists := tx.sessions[s.ID]; exists {
		return NewValidationError("session", FieldError{Field: "id", Message: "already exists"})
	}

	for _, slot := range s.Slots {
		slot.ID = tx.nextID()
		slot.SessionID = s.ID
		for _, set := range slot.Sets {
			set.ID = tx.nextID()
			set.SlotID = slot.ID
		}
	}
	for _, p := range s.Pauses {
		p.ID = tx.nextID()
		p.SessionID = s.ID
	}
	tx.sessions[s.ID] = s.Clone()
	return nil
}

func (tx *memoryTx) UpdateSessionStatus(_ context.Context, s *Session) error {
	stored, ok := tx.sessions[s.ID]
	if !ok {
		return ErrSessionNotFound
	}
	stored.Status = s.Status
	stored.CompletedAt = clonePtr(s.CompletedAt)
	stored.UpdatedAt = s.UpdatedAt
	return nil
}

func (tx *memoryTx) UpdateSessionCompletion(ctx context.Context, s *Session) error {
	if err := tx.UpdateSessionStatus(ctx, s); err != nil {
		return err
	}
	stored := tx.sessions[s.ID]
	stored.Totals = s.Totals
	stored.FollowedRoutine = s.FollowedRoutine
	stored.Rating = clonePtr(s.Rating)
	stored.Feedback = s.Feedback
	return nil
}

func (tx *memoryTx) InsertSlot(_ context.Context, slot *Slot) error {
	stored, ok := tx.sessions[slot.SessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for _, other := range stored.Slots {
		if other.Position == slot.Position {
			return NewValidationError("slot", FieldError{Field: "position", Message: "already taken"})
		}
	}
	slot.ID = tx.nextID()
	stored.Slots = append(stored.Slots, slot.clone())
	return nil
}

func (tx *memoryTx) UpdateSlotCompletion(_ context.Context, slot *Slot) error {
	stored := tx.findSlot(slot.ID)
	if stored == nil {
		return ErrSlotNotFound
	}
	stored.Finalized = slot.Finalized
	stored.CompletedAsPrescribed = slot.CompletedAsPrescribed
	stored.UpdatedAt = slot.UpdatedAt
	return nil
}

func (tx *memoryTx) InsertSet(_ context.Context, set *Set) error {
	slot := tx.findSlot(set.SlotID)
	if slot == nil {
		return ErrSlotNotFound
	}
	for _, other := range slot.Sets {
		if other.Number == set.Number {
			return NewValidationError("set", FieldError{Field: "number", Message: "already taken"})
		}
	}
	set.ID = tx.nextID()
	slot.Sets = append(slot.Sets, set.clone())
	return nil
}

func (tx *memoryTx) UpdateSetProgress(_ context.Context, set *Set) error {
	stored := tx.findSet(set.ID)
	if stored == nil {
		return ErrSetNotFound
	}
	stored.Weight = set.Weight
	stored.Reps = set.Reps
	stored.DropWeight = clonePtr(set.DropWeight)
	stored.DropReps = clonePtr(set.DropReps)
	stored.StartedAt = clonePtr(set.StartedAt)
	stored.Completed = set.Completed
	stored.CompletedAt = clonePtr(set.CompletedAt)
	return nil
}

func (tx *memoryTx) MarkPersonalRecord(_ context.Context, setID int64, kind PRKind) error {
	stored := tx.findSet(setID)
	if stored == nil {
		return ErrSetNotFound
	}
	return applyPersonalRecord(stored, kind)
}

func (tx *memoryTx) InsertPause(_ context.Context, p *PauseEvent) error {
	stored, ok := tx.sessions[p.SessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if stored.ActivePause() != nil {
		return ErrPauseAlreadyActive
	}
	p.ID = tx.nextID()
	stored.Pauses = append(stored.Pauses, p.clone())
	return nil
}

func (tx *memoryTx) UpdatePause(_ context.Context, p *PauseEvent) error {
	stored, ok := tx.sessions[p.SessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for _, existing := range stored.Pauses {
		if existing.ID == p.ID {
			existing.ResumedAt = clonePtr(p.ResumedAt)
			existing.Duration = p.Duration
			return nil
		}
	}
	return ErrNoActivePause
}

func (tx *memoryTx) DeleteOwnerSessions(_ context.Context, ownerID int64) (int64, error) {
	var deleted int64
	for id, s := range tx.sessions {
		if s.OwnerID == ownerID {
			delete(tx.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (tx *memoryTx) findSlot(id int64) *Slot {
	for _, s := range tx.sessions {
		if slot := s.Slot(id); slot != nil {
			return slot
		}
	}
	return nil
}

func (tx *memoryTx) findSet(id int64) *Set {
	for _, s := range tx.sessions {
		if _, set := s.FindSet(id); set != nil {
			return set
		}
	}
	return nil
}
