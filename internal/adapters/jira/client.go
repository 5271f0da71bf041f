/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/config"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/domain"
    "github.com/rs/zerolog"
)

const pageSize = 100

type Client struct {
    baseURL string
    email   string
    token   string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: cfg.JiraBaseURL,
        email:   cfg.JiraEmail,
        token:   cfg.JiraAPIToken,
        http:    &http.Client{ Timeout: cfg.HTTPTimeout },
        log:     log,
    }
}

// BuildJQL selects issues that entered the resolved status during "yesterday"
// in the Jira user's timezone; the relative day functions keep timestamp and
// timezone arithmetic on Jira's side.
func BuildJQL(projects []string, resolvedStatus string) string {
    keys := make([]string, 0, len(projects))
    for _, p := range projects {
        p = strings.TrimSpace(p)
        if p != "" { keys = append(keys, p) }
    }
    return fmt.Sprintf("project in (%s) AND status CHANGED TO %q DURING (startOfDay(-1), endOfDay(-1))",
        strings.Join(keys, ","), resolvedStatus)
}

func (c *Client) apiURL(path string, q url.Values) string {
    base := strings.TrimRight(c.baseURL, "/")
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := base + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func (c *Client) doJSON(ctx context.Context, u string) (map[string]any, error) {
    if c.baseURL == "" { return nil, errors.New("jira: empty baseURL") }
    var lastErr error
    for attempt := 0; attempt < 3; attempt++ {
        req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
        if err != nil { return nil, err }
        req.Header.Set("Accept", "application/json")
        req.SetBasicAuth(c.email, c.token)
        resp, err := c.http.Do(req)
        if err != nil { lastErr = err } else {
            defer resp.Body.Close()
            if resp.StatusCode >= 300 {
                b, _ := io.ReadAll(resp.Body)
                // retry on 429/5xx
                if resp.StatusCode == 429 || resp.StatusCode >= 500 {
                    lastErr = fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
                } else {
                    return nil, fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
                }
            } else {
                var out map[string]any
                if err := json.NewDecoder(resp.Body).Decode(&out); err != nil { return nil, err }
                return out, nil
            }
        }
        time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
    }
    return nil, lastErr
}

// SearchResolved pages through the enhanced search endpoint and extracts the
// fields the audit consumes. Order follows Jira's response order.
func (c *Client) SearchResolved(ctx context.Context, jql string) ([]domain.Issue, error) {
    if strings.TrimSpace(jql) == "" { return nil, errors.New("jira: empty jql") }
    var issues []domain.Issue
    startAt := 0
    for {
        q := url.Values{}
        q.Set("jql", jql)
        q.Set("startAt", fmt.Sprint(startAt))
        q.Set("maxResults", fmt.Sprint(pageSize))
        q.Set("fields", "key,summary,assignee,reporter,resolutiondate")
        page, err := c.doJSON(ctx, c.apiURL("/rest/api/3/search/jql", q))
        if err != nil { return nil, err }
        arr, _ := page["issues"].([]any)
        for _, it := range arr {
            im, _ := it.(map[string]any)
            if im == nil { continue }
            issues = append(issues, parseIssue(im))
        }
        total := 0
        if t, ok := page["total"].(float64); ok { total = int(t) }
        if startAt+pageSize >= total { break }
        startAt += pageSize
    }
    c.log.Info().Int("issues", len(issues)).Str("jql", jql).Msg("jira search complete")
    return issues, nil
}

func parseIssue(im map[string]any) domain.Issue {
    fields, _ := im["fields"].(map[string]any)
    iss := domain.Issue{
        Key:        toStrAny(im["key"]),
        Summary:    toStrAny(fields["summary"]),
        ResolvedAt: parseTimeUTC(fields["resolutiondate"]),
    }
    if as, ok := fields["assignee"].(map[string]any); ok {
        id := toStrAny(as["accountId"])
        if id == "" { id = toStrAny(as["name"]) }
        iss.Assignee = &domain.Owner{ID: id, Name: toStrAny(as["displayName"])}
    }
    if rp, ok := fields["reporter"].(map[string]any); ok {
        iss.Reporter = toStrAny(rp["displayName"])
    }
    return iss
}

func parseTimeUTC(v any) *time.Time {
    s, _ := v.(string)
    if s == "" { return nil }
    layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000-0700", "2006-01-02T15:04:05-0700"}
    for _, l := range layouts {
        if t, err := time.Parse(l, s); err == nil {
            tt := t.UTC(); return &tt
        }
    }
    return nil
}

func toStrAny(v any) string {
    if v == nil { return "" }
    if s, ok := v.(string); ok { return s }
    return fmt.Sprintf("%v", v)
}
