/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "flag"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/adapters/jira"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/adapters/mailer"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/adapters/openai"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/config"
    httpx "github.com/QuirozDev8/automation-incidentes-vs/internal/http"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/jobs"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/logger"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/repo"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/services"
)

func main() {
    once := flag.Bool("once", false, "run one audit and exit (plain cron-job mode)")
    flag.Parse()

    cfg := config.Load()
    log := logger.New(cfg)
    if missing := cfg.Validate(); len(missing) > 0 {
        log.Fatal().Str("missing", strings.Join(missing, ",")).Msg("incomplete configuration")
    }
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    // DB is optional; without it the service runs stateless
    var repository *repo.Repository
    if cfg.DBDSN != "" {
        db := repo.MustOpen(ctx, cfg, log)
        defer db.Close()
        repository = repo.NewRepository(db, log)
        if err := repository.EnsureSchema(ctx); err != nil {
            log.Fatal().Err(err).Msg("schema setup failed")
        }
    }

    // Adapters
    jc := jira.NewClient(cfg, log)
    ml := mailer.NewClient(cfg, log)
    var llm services.LLM
    if cfg.OpenAIKey != "" { llm = openai.NewClient(cfg, log) }

    svc := services.New(cfg, log, repository, jc, ml, llm)

    if *once {
        ctx2, cancel2 := context.WithTimeout(ctx, 10*time.Minute); defer cancel2()
        if err := svc.RunDailyAudit(ctx2); err != nil {
            log.Fatal().Err(err).Msg("audit failed")
        }
        return
    }

    // HTTP server (Gin)
    router := httpx.NewRouter(cfg, log, svc)

    // Cron
    cr := jobs.NewCron(cfg, log, svc, repository)
    cr.Start()
    defer cr.Stop()

    // graceful shutdown
    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}
