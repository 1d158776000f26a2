package workout

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PauseEvent struct {
	ID        int64         `json:"id"`
	SessionID uuid.UUID     `json:"sessionId"`
	PausedAt  time.Time     `json:"pausedAt"`
	ResumedAt *time.Time    `json:"resumedAt,omitempty"`
	Reason    string        `json:"reason"`
	Duration  time.Duration `json:"duration"`
}

func (p *PauseEvent) Active() bool {
	return p.ResumedAt == nil
}

func (p *PauseEvent) clone() *PauseEvent {
	c := *p
	c.ResumedAt = clonePtr(p.ResumedAt)
	return &c
}

// PauseTracker opens and closes the pause intervals of one session.
// At most one pause is open at a time.
type PauseTracker struct {
	sessionID uuid.UUID
	events    *[]*PauseEvent
}

func (t *PauseTracker) ActivePause() *PauseEvent {
	for _, p := range *t.events {
		if p.Active() {
			return p
		}
	}
	return nil
}

func (t *PauseTracker) Pause(now time.Time, reason string) (*PauseEvent, error) {
	if t.ActivePause() != nil {
		return nil, ErrPauseAlreadyActive
	}

	reason = strings.TrimSpace(reason)
	v := &validator{entity: "pause"}
	v.check(reason != "", "reason", "required")
	if err := v.err(); err != nil {
		return nil, err
	}

	p := &PauseEvent{
		SessionID: t.sessionID,
		PausedAt:  now,
		Reason:    reason,
	}
	*t.events = append(*t.events, p)
	return p, nil
}

func (t *PauseTracker) Resume(now time.Time) (*PauseEvent, error) {
	p := t.ActivePause()
	if p == nil {
		return nil, ErrNoActivePause
	}

	v := &validator{entity: "pause"}
	v.check(now.After(p.PausedAt), "resumedAt", "must be after the pause started")
	if err := v.err(); err != nil {
		return nil, err
	}

	p.ResumedAt = &now
	p.Duration = now.Sub(p.PausedAt)
	return p, nil
}

// TotalPaused sums closed pauses, and the open one up to now.
func (t *PauseTracker) TotalPaused(now time.Time) time.Duration {
	var total time.Duration
	for _, p := range *t.events {
		if p.Active() {
			if now.After(p.PausedAt) {
				total += now.Sub(p.PausedAt)
			}
			continue
		}
		total += p.Duration
	}
	return total
}
