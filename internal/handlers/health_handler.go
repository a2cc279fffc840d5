package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/prompts"
	"github.com/chenhw7/MoonLight/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	db       *gorm.DB
	registry *llm.Registry
	prompts  *prompts.Manager
}

func NewHealthHandler(db *gorm.DB, registry *llm.Registry, manager *prompts.Manager) *HealthHandler {
	return &HealthHandler{db: db, registry: registry, prompts: manager}
}

func (h *HealthHandler) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
		"version": "1.0.0",
	})
}

func (h *HealthHandler) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]ReadinessCheck)
	ready := true

	if h.db == nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: "database not initialized"}
		ready = false
	} else if sqlDB, err := h.db.DB(); err != nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: err.Error()}
		ready = false
	} else if err := sqlDB.PingContext(r.Context()); err != nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: err.Error()}
		ready = false
	} else {
		checks["database"] = ReadinessCheck{Status: "ok"}
	}

	if h.registry == nil || len(h.registry.Names()) == 0 {
		checks["providers"] = ReadinessCheck{Status: "failed", Message: "no llm providers registered"}
		ready = false
	} else {
		checks["providers"] = ReadinessCheck{Status: "ok"}
	}

	if h.prompts == nil {
		checks["prompts"] = ReadinessCheck{Status: "failed", Message: "prompt templates not loaded"}
		ready = false
	} else {
		checks["prompts"] = ReadinessCheck{Status: "ok"}
	}

	resp := ReadinessResponse{Service: "interview", Checks: checks}
	if ready {
		resp.Status = "ready"
		utils.JSON(w, http.StatusOK, resp)
	} else {
		resp.Status = "not_ready"
		utils.JSON(w, http.StatusServiceUnavailable, resp)
	}
}
