package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/gymsession/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const healthCheckTimeout = 2 * time.Second

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	rdb         redisPinger
	db          dbPinger // nil with the in-memory store
	versionInfo string
}

func NewHealthHandler(rdb redisPinger, db dbPinger, versionInfo string) *HealthHandler {
	return &HealthHandler{
		rdb:         rdb,
		db:          db,
		versionInfo: versionInfo,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Redis    string `json:"redis"`
	Postgres string `json:"postgres,omitempty"`
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Redis: "ok"}
	status := http.StatusOK

	if err := h.rdb.Ping(ctx).Err(); err != nil {
		log.Errorf("health check, ping redis: %s", err)
		resp.Redis = err.Error()
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	if h.db != nil {
		resp.Postgres = "ok"
		if err := h.db.Ping(ctx); err != nil {
			log.Errorf("health check, ping postgres: %s", err)
			resp.Postgres = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, status)
}

func (h *HealthHandler) HandleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, h.versionInfo)
}
