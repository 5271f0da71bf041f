/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "net/http"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/config"
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
)

type service interface {
    RunDailyAudit(ctx context.Context) error
    Preview(ctx context.Context) (string, error)
    GetLastRun(ctx context.Context) (any, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc any) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc.(service)}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) LastRun(c *gin.Context) {
    lr, err := h.svc.GetLastRun(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, lr)
}

func (h *Handlers) RunNow(c *gin.Context) {
    // Run in background detached from the HTTP request to avoid context cancellation
    go func(){ _ = h.svc.RunDailyAudit(context.Background()) }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// Preview runs the pipeline without delivery and returns the HTML document,
// the HTTP equivalent of a dry run.
func (h *Handlers) Preview(c *gin.Context) {
    html, err := h.svc.Preview(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
