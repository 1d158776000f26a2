package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/gymsession/internal/workout"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"
)

const maxPageSize = 100

// sessionReader is the read side of the workout service the tools need.
type sessionReader interface {
	Get(ctx context.Context, ownerID int64, id uuid.UUID) (*workout.Session, error)
	List(ctx context.Context, ownerID int64, params workout.ListParams) ([]*workout.Session, error)
	PersonalRecords(ctx context.Context, ownerID int64, exerciseID *int64) ([]workout.PersonalRecord, error)
	SuggestWeight(ctx context.Context, ownerID, exerciseID int64) (*float64, error)
}

// Handler parses tool arguments, calls the service and formats the tool result.
// Every tool works on the sessions of a single owner.
type Handler struct {
	service sessionReader
	ownerID int64
	now     func() time.Time
}

func NewHandler(service sessionReader, ownerID int64) *Handler {
	return &Handler{
		service: service,
		ownerID: ownerID,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (h *Handler) GetWorkoutSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return mcp.NewToolResultError("session_id must be a UUID"), nil
	}

	session, err := h.service.Get(ctx, h.ownerID, id)
	if err != nil {
		if errors.Is(err, workout.ErrSessionNotFound) {
			return mcp.NewToolResultError("workout session not found"), nil
		}
		log.Errorf("mcp get workout session %s: %s", id, err)
		return mcp.NewToolResultError("Error fetching workout session: " + err.Error()), nil
	}

	if req.GetString("view", "summary") == "full" {
		return jsonResult(session)
	}
	return jsonResult(session.Summary(h.now()))
}

func (h *Handler) ListWorkoutSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := workout.ListParams{
		Page: req.GetInt("page", 1),
		Size: req.GetInt("size", 20),
	}
	if params.Page < 1 {
		return mcp.NewToolResultError("page must be at least 1"), nil
	}
	if params.Size < 1 || params.Size > maxPageSize {
		return mcp.NewToolResultError("size must be between 1 and 100"), nil
	}
	if rawStatus := req.GetString("status", ""); rawStatus != "" {
		status := workout.Status(rawStatus)
		if !status.IsValid() {
			return mcp.NewToolResultError("unknown status: " + rawStatus), nil
		}
		params.Status = &status
	}

	sessions, err := h.service.List(ctx, h.ownerID, params)
	if err != nil {
		return mcp.NewToolResultError("Error listing workout sessions: " + err.Error()), nil
	}

	now := h.now()
	summaries := make([]workout.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, s.Summary(now))
	}
	return jsonResult(summaries)
}

func (h *Handler) ListPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var exerciseID *int64
	if raw := req.GetInt("exercise_id", 0); raw > 0 {
		id := int64(raw)
		exerciseID = &id
	}

	records, err := h.service.PersonalRecords(ctx, h.ownerID, exerciseID)
	if err != nil {
		return mcp.NewToolResultError("Error listing personal records: " + err.Error()), nil
	}
	return jsonResult(records)
}

type weightSuggestion struct {
	ExerciseID int64    `json:"exercise_id"`
	Weight     *float64 `json:"weight"`
}

func (h *Handler) SuggestWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireInt("exercise_id")
	if err != nil || raw <= 0 {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	exerciseID := int64(raw)

	weight, err := h.service.SuggestWeight(ctx, h.ownerID, exerciseID)
	if err != nil {
		return mcp.NewToolResultError("Error suggesting weight: " + err.Error()), nil
	}
	return jsonResult(weightSuggestion{ExerciseID: exerciseID, Weight: weight})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("Error encoding response: " + err.Error()), nil
	}
	return result, nil
}
