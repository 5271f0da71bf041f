/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "fmt"
    "math/rand"
    "sort"
    "strings"
    "time"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/adapters/jira"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/config"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/domain"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/report"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/repo"
    "github.com/rs/zerolog"
)

type JiraClient interface {
    SearchResolved(ctx context.Context, jql string) ([]domain.Issue, error)
}

type Mailer interface {
    Send(ctx context.Context, subject, htmlBody string) error
}

type LLM interface {
    Highlight(ctx context.Context, stats report.Stats, perOwner map[string]int) (string, error)
}

type Service struct {
    cfg     config.Config
    log     zerolog.Logger
    repo    *repo.Repository
    jira    JiraClient
    mailer  Mailer
    llm     LLM
    sampler *report.Sampler
}

// New wires the pipeline. repository and llm may be nil (bookkeeping and the
// highlight note are optional features).
func New(cfg config.Config, log zerolog.Logger, repository *repo.Repository, jc JiraClient, mailer Mailer, llm LLM) *Service {
    var rng *rand.Rand
    if cfg.SampleSeed != 0 { rng = rand.New(rand.NewSource(cfg.SampleSeed)) }
    return &Service{cfg: cfg, log: log, repo: repository, jira: jc, mailer: mailer, llm: llm, sampler: report.NewSampler(rng)}
}

// targetDate is "yesterday" in the configured timezone, aligned with the
// relative JQL window.
func (s *Service) targetDate() time.Time {
    loc, err := time.LoadLocation(s.cfg.TZ)
    if err != nil { loc = time.Local }
    return time.Now().In(loc).AddDate(0, 0, -1)
}

// RunDailyAudit executes the full pipeline: fetch, stats, group, sample,
// render, deliver. An empty fetch result is a success and still produces a
// valid "no issues" report.
func (s *Service) RunDailyAudit(ctx context.Context) error {
    jql := jira.BuildJQL(s.cfg.JiraProjects, s.cfg.JiraResolvedStatus)
    s.log.Info().Str("jql", jql).Msg("DailyAudit: start")

    var runID int64
    if s.repo != nil {
        id, err := s.repo.StartJobRun(ctx, jql)
        if err != nil { s.log.Error().Err(err).Msg("start job run failed") } else { runID = id }
    }
    finish := func(issues, owners, sampled int, runErr error) {
        if s.repo == nil || runID == 0 { return }
        errStr := ""
        if runErr != nil { errStr = runErr.Error() }
        if err := s.repo.FinishJobRun(ctx, runID, issues, owners, sampled, runErr == nil, errStr); err != nil {
            s.log.Error().Err(err).Msg("finish job run failed")
        }
    }

    issues, err := s.jira.SearchResolved(ctx, jql)
    if err != nil {
        finish(0, 0, 0, err)
        return fmt.Errorf("daily audit: fetch: %w", err)
    }

    rp, stats := s.assemble(ctx, issues)
    s.log.Info().
        Int("issues", len(issues)).
        Int("with_owner", stats.WithOwner).
        Int("without_owner", stats.WithoutOwner).
        Msg("assignee stats")
    s.logOwnerSummary(rp.Selection)

    html, err := rp.HTML()
    if err != nil {
        finish(len(issues), len(rp.Selection), selectedCount(rp.Selection), err)
        return fmt.Errorf("daily audit: render: %w", err)
    }
    subject := fmt.Sprintf("[Audit] Issues resolved on %s", rp.Date.Format("2006-01-02"))

    if s.cfg.DryRun { fmt.Print(rp.Console()) }
    if err := s.mailer.Send(ctx, subject, html); err != nil {
        finish(len(issues), len(rp.Selection), selectedCount(rp.Selection), err)
        return fmt.Errorf("daily audit: deliver: %w", err)
    }

    finish(len(issues), len(rp.Selection), selectedCount(rp.Selection), nil)
    s.log.Info().Str("subject", subject).Msg("DailyAudit: done")
    return nil
}

// Preview runs the pipeline without delivery or bookkeeping and returns the
// HTML document.
func (s *Service) Preview(ctx context.Context) (string, error) {
    jql := jira.BuildJQL(s.cfg.JiraProjects, s.cfg.JiraResolvedStatus)
    issues, err := s.jira.SearchResolved(ctx, jql)
    if err != nil { return "", fmt.Errorf("preview: fetch: %w", err) }
    rp, _ := s.assemble(ctx, issues)
    html, err := rp.HTML()
    if err != nil { return "", fmt.Errorf("preview: render: %w", err) }
    return html, nil
}

func (s *Service) assemble(ctx context.Context, issues []domain.Issue) (report.Report, report.Stats) {
    stats := report.Summarize(issues)
    groups := report.GroupByOwner(issues)
    selection := s.sampler.Pick(groups, s.cfg.SamplePerOwner)
    rp := report.Report{
        BaseURL:   s.cfg.JiraBaseURL,
        Date:      s.targetDate(),
        Selection: selection,
        Total:     len(issues),
    }
    if s.llm != nil && strings.TrimSpace(s.cfg.OpenAIKey) != "" && len(issues) > 0 {
        perOwner := map[string]int{}
        for owner, items := range selection { perOwner[owner.Name] = len(items) }
        note, err := s.llm.Highlight(ctx, stats, perOwner)
        if err != nil {
            s.log.Error().Err(err).Msg("highlight note failed; continuing without it")
        } else {
            rp.Note = note
        }
    }
    return rp, stats
}

func (s *Service) logOwnerSummary(selection map[domain.Owner][]domain.Issue) {
    owners := make([]domain.Owner, 0, len(selection))
    for o := range selection { owners = append(owners, o) }
    sort.Slice(owners, func(i, j int) bool {
        return strings.ToLower(owners[i].Name) < strings.ToLower(owners[j].Name)
    })
    for _, o := range owners {
        s.log.Info().Str("owner", o.Name).Int("selected", len(selection[o])).Msg("audit selection")
    }
}

func selectedCount(selection map[domain.Owner][]domain.Issue) int {
    n := 0
    for _, items := range selection { n += len(items) }
    return n
}

func (s *Service) GetLastRun(ctx context.Context) (any, error) {
    if s.repo == nil { return map[string]any{"status": "bookkeeping disabled"}, nil }
    return s.repo.GetLastRun(ctx)
}
