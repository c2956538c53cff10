/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vrognas/positron-redmine/internal/analytics"
	"github.com/vrognas/positron-redmine/internal/config"
	"github.com/vrognas/positron-redmine/internal/redmine"
)

type service interface {
	AssignedIssues(ctx context.Context) ([]redmine.Issue, error)
	Workload(ctx context.Context, today time.Time) (analytics.WorkloadSummary, error)
	RunWorkloadDigest(ctx context.Context) error
}

type Handlers struct {
	cfg config.Config
	log zerolog.Logger
	svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service) *Handlers {
	return &Handlers{cfg: cfg, log: log, svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) Issues(c *gin.Context) {
	issues, err := h.svc.AssignedIssues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues, "total_count": len(issues)})
}

func (h *Handlers) Workload(c *gin.Context) {
	// Optional ?date=YYYY-MM-DD pins the reference date, mostly for
	// inspecting past or upcoming weeks.
	today := time.Time{}
	if raw := c.Query("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		today = t
	}
	summary, err := h.svc.Workload(c.Request.Context(), today)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handlers) RunDigest(c *gin.Context) {
	// Run detached from the HTTP request to avoid context cancellation
	go func() { _ = h.svc.RunWorkloadDigest(context.Background()) }()
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
