package workout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymsession/internal/auth"
	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workout_test

type service interface {
	Start(ctx context.Context, params StartParams) (*Session, error)
	Get(ctx context.Context, ownerID int64, id uuid.UUID) (*Session, error)
	Active(ctx context.Context, ownerID int64) (*Session, error)
	List(ctx context.Context, ownerID int64, params ListParams) ([]*Session, error)
	Pause(ctx context.Context, ownerID int64, id uuid.UUID, reason string) (*PauseEvent, error)
	Resume(ctx context.Context, ownerID int64, id uuid.UUID) (*PauseEvent, error)
	Complete(ctx context.Context, ownerID int64, id uuid.UUID, in CompletionInput) (*CompletionResult, error)
	Abandon(ctx context.Context, ownerID int64, id uuid.UUID) (*Session, error)
	AddSlot(ctx context.Context, ownerID int64, id uuid.UUID, in SlotInput) (*Slot, error)
	RecordSet(ctx context.Context, ownerID int64, id uuid.UUID, slotID int64, in SetInput) (*Set, error)
	PlanSet(ctx context.Context, ownerID int64, id uuid.UUID, slotID int64, in SetInput) (*Set, error)
	StartSet(ctx context.Context, ownerID int64, id uuid.UUID, setID int64) (*Set, error)
	CompleteSet(ctx context.Context, ownerID int64, id uuid.UUID, setID int64, override *SetOverride) (*Set, error)
	PersonalRecords(ctx context.Context, ownerID int64, exerciseID *int64) ([]PersonalRecord, error)
	SuggestWeight(ctx context.Context, ownerID, exerciseID int64) (*float64, error)
	PurgeHistory(ctx context.Context, ownerID int64) (int64, error)
}

type Handler struct {
	service service
	now     func() time.Time
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workouts", h.HandleStart).Methods("POST", "OPTIONS").Name("start-workout")
	r.HandleFunc("/workouts", h.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/active", h.HandleActive).Methods("GET", "OPTIONS").Name("active-workout")
	r.HandleFunc("/workouts/records", h.HandlePersonalRecords).Methods("GET", "OPTIONS").Name("personal-records")
	r.HandleFunc("/workouts/suggest/{exerciseId}", h.HandleSuggestWeight).Methods("GET", "OPTIONS").Name("suggest-weight")
	r.HandleFunc("/workouts/history", h.HandlePurgeHistory).Methods("DELETE", "OPTIONS").Name("purge-history")
	r.HandleFunc("/workouts/{id}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}/pause", h.HandlePause).Methods("POST", "OPTIONS").Name("pause-workout")
	r.HandleFunc("/workouts/{id}/resume", h.HandleResume).Methods("POST", "OPTIONS").Name("resume-workout")
	r.HandleFunc("/workouts/{id}/complete", h.HandleComplete).Methods("POST", "OPTIONS").Name("complete-workout")
	r.HandleFunc("/workouts/{id}/abandon", h.HandleAbandon).Methods("POST", "OPTIONS").Name("abandon-workout")
	r.HandleFunc("/workouts/{id}/slots", h.HandleAddSlot).Methods("POST", "OPTIONS").Name("add-slot")
	r.HandleFunc("/workouts/{id}/slots/{slotId}/sets", h.HandleRecordSet).Methods("POST", "OPTIONS").Name("record-set")
	r.HandleFunc("/workouts/{id}/slots/{slotId}/sets/plan", h.HandlePlanSet).Methods("POST", "OPTIONS").Name("plan-set")
	r.HandleFunc("/workouts/{id}/sets/{setId}/start", h.HandleStartSet).Methods("POST", "OPTIONS").Name("start-set")
	r.HandleFunc("/workouts/{id}/sets/{setId}/complete", h.HandleCompleteSet).Methods("POST", "OPTIONS").Name("complete-set")
}

type startRequest struct {
	TemplateID *int64 `json:"templateId,omitempty"`
	Name       string `json:"name,omitempty"`
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.start")
	defer span.End()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.service.Start(ctx, StartParams{
		OwnerID:    ownerID,
		TemplateID: req.TemplateID,
		Name:       req.Name,
	})
	if err != nil {
		writeError(w, "start workout", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, session.Summary(h.now()))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.get")
	defer span.End()

	ownerID, id, ok := h.ownerAndSession(w, r)
	if !ok {
		return
	}

	session, err := h.service.Get(ctx, ownerID, id)
	if err != nil {
		writeError(w, "get workout", err)
		return
	}

	if r.URL.Query().Get("view") == "full" {
		h.writeJSON(w, http.StatusOK, session)
		return
	}
	h.writeJSON(w, http.StatusOK, session.Summary(h.now()))
}

func (h *Handler) HandleActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.active")
	defer span.End()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	session, err := h.service.Active(ctx, ownerID)
	if err != nil {
		writeError(w, "get active workout", err)
		return
	}

	h.writeJSON(w, http.StatusOK, session.Summary(h.now()))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.list")
	defer span.End()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	params := ListParams{Page: 1, Size: 20}
	query := r.URL.Query()
	if rawStatus := query.Get("status"); rawStatus != "" {
		status := Status(rawStatus)
		params.Status = &status
	}
	var err error
	if rawPage := query.Get("page"); rawPage != "" {
		if params.Page, err = strconv.Atoi(rawPage); err != nil || params.Page < 1 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
	}
	if rawSize := query.Get("size"); rawSize != "" {
		if params.Size, err = strconv.Atoi(rawSize); err != nil || params.Size < 1 || params.Size > 100 {
			http.Error(w, "invalid size", http.StatusBadRequest)
			return
		}
	}

	sessions, err := h.service.List(ctx, ownerID, params)
	if err != nil {
		writeError(w, "list workouts", err)
		return
	}

	now := h.now()
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, s.Summary(now))
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

type pauseRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.pause")
	defer span.End()

	ownerID, id, ok := h.ownerAndSession(w, r)
	if !ok {
		return
	}

	var req pauseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pause, err := h.service.Pause(ctx, ownerID, id, req.Reason)
	if err != nil {
		writeError(w, "pause workout", err)
		return
	}

	h.writeJSON(w, http.StatusOK, pause)
}

func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.resume")
	defer span.End()

	ownerID, id, ok := h.ownerAndSession(w, r)
	if !ok {
		return
	}

	pause, err := h.service.Resume(ctx, ownerID, id)
	if err != nil {
		writeError(w, "resume workout", err)
		return
	}

	h.writeJSON(w, http.StatusOK, pause)
}

type completeResponse struct {
	Summary SessionSummary `json:"summary"`
	Records []RecordHit    `json:"records"`
}

func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.complete")
	defer span.End()

	ownerID, id, ok := h.ownerAndSession(w, r)
	if !ok {
		return
	}

	var in CompletionInput
	if !decodeBody(w, r, &in) {
		return
	}

	result, err := h.service.Complete(ctx, ownerID, id, in)
	if err != nil {
		writeError(w, "complete workout", err)
		return
	}

	records := result.Records
	if records == nil {
		records = []RecordHit{}
	}
	h.writeJSON(w, http.StatusOK, completeResponse{
		Summary: result.Session.Summary(h.now()),
		Records: records,
	})
}

func (h *Handler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.abandon")
	defer span.End()

	ownerID, id, ok := h.ownerAndSession(w, r)
	if !ok {
		return
	}

	session, err := h.service.Abandon(ctx, ownerID, id)
	if err != nil {
		writeError(w, "abandon workout", err)
		return
	}

	h.writeJSON(w, http.StatusOK, session.Summary(h.now()))
}

func (h *Handler) HandleAddSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.slot.add")
	defer span.End()

	ownerID, id, ok := h.ownerAndSession(w, r)
	if !ok {
		return
	}

	var in SlotInput
	if !decodeBody(w, r, &in) {
		return
	}

	slot, err := h.service.AddSlot(ctx, ownerID, id, in)
	if err != nil {
		writeError(w, "add slot", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, slot)
}

func (h *Handler) HandleRecordSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.set.record")
	defer span.End()
	h.handleNewSet(ctx, w, r, h.service.RecordSet)
}

func (h *Handler) HandlePlanSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.set.plan")
	defer span.End()
	h.handleNewSet(ctx, w, r, h.service.PlanSet)
}

func (h *Handler) handleNewSet(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	create func(ctx context.Context, ownerID int64, id uuid.UUID, slotID int64, in SetInput) (*Set, error),
) {
	ownerID, id, ok := h.ownerAndSession(w, r)
	if !ok {
		return
	}
	slotID, ok := pathInt64(w, r, "slotId")
	if !ok {
		return
	}

	var in SetInput
	if !decodeBody(w, r, &in) {
		return
	}

	set, err := create(ctx, ownerID, id, slotID, in)
	if err != nil {
		writeError(w, "new set", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, set)
}

func (h *Handler) HandleStartSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.set.start")
	defer span.End()

	ownerID, id, ok := h.ownerAndSession(w, r)
	if !ok {
		return
	}
	setID, ok := pathInt64(w, r, "setId")
	if !ok {
		return
	}

	set, err := h.service.StartSet(ctx, ownerID, id, setID)
	if err != nil {
		writeError(w, "start set", err)
		return
	}

	h.writeJSON(w, http.StatusOK, set)
}

func (h *Handler) HandleCompleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.set.complete")
	defer span.End()

	ownerID, id, ok := h.ownerAndSession(w, r)
	if !ok {
		return
	}
	setID, ok := pathInt64(w, r, "setId")
	if !ok {
		return
	}

	// an empty body completes the set as planned
	var override *SetOverride
	if r.ContentLength != 0 {
		override = &SetOverride{}
		if !decodeBody(w, r, override) {
			return
		}
	}

	set, err := h.service.CompleteSet(ctx, ownerID, id, setID, override)
	if err != nil {
		writeError(w, "complete set", err)
		return
	}

	h.writeJSON(w, http.StatusOK, set)
}

func (h *Handler) HandlePersonalRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.records")
	defer span.End()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var exerciseID *int64
	if raw := r.URL.Query().Get("exerciseId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid exercise id", http.StatusBadRequest)
			return
		}
		exerciseID = &parsed
	}

	records, err := h.service.PersonalRecords(ctx, ownerID, exerciseID)
	if err != nil {
		writeError(w, "list personal records", err)
		return
	}

	h.writeJSON(w, http.StatusOK, records)
}

type suggestResponse struct {
	ExerciseID int64    `json:"exerciseId"`
	Weight     *float64 `json:"weight"`
}

func (h *Handler) HandleSuggestWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.suggest.weight")
	defer span.End()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	exerciseID, ok := pathInt64(w, r, "exerciseId")
	if !ok {
		return
	}

	weight, err := h.service.SuggestWeight(ctx, ownerID, exerciseID)
	if err != nil {
		writeError(w, "suggest weight", err)
		return
	}

	h.writeJSON(w, http.StatusOK, suggestResponse{ExerciseID: exerciseID, Weight: weight})
}

func (h *Handler) HandlePurgeHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.purge")
	defer span.End()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.PurgeHistory(ctx, ownerID)
	if err != nil {
		writeError(w, "purge history", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ownerID, err := auth.OwnerIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return 0, false
	}
	return ownerID, true
}

func (h *Handler) ownerAndSession(w http.ResponseWriter, r *http.Request) (int64, uuid.UUID, bool) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return 0, uuid.Nil, false
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid workout id", http.StatusBadRequest)
		return 0, uuid.Nil, false
	}
	return ownerID, id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal workout response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, status)
}

func pathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		log.Debugf("decode request body [%s]: %s", r.URL.Path, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

type errorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// writeError maps engine errors to response codes. Unknown errors are logged
// and reported as internal errors without details.
func writeError(w http.ResponseWriter, op string, err error) {
	var (
		validationErr *ValidationError
		completionErr *CompletionError
		status        int
		body          = errorResponse{Error: err.Error()}
	)

	switch {
	case errors.As(err, &completionErr):
		status = http.StatusUnprocessableEntity
		log.Errorf("%s: %s", op, err)
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		body.Fields = validationErr.Fields()
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrSetNotFound),
		errors.Is(err, ErrTemplateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrActiveSessionExists),
		errors.Is(err, ErrPauseAlreadyActive),
		errors.Is(err, ErrNoActivePause),
		errors.Is(err, ErrSetAlreadyStarted),
		errors.Is(err, ErrSetAlreadyCompleted):
		status = http.StatusConflict
	default:
		log.Errorf("%s: %s", op, err)
		status = http.StatusInternalServerError
		body.Error = op + " failed"
	}

	resp, mErr := json.Marshal(body)
	if mErr != nil {
		http.Error(w, op+" failed", status)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, status)
}
