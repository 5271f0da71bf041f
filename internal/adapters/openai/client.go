package openai

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/config"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/report"
    "github.com/rs/zerolog"
)

type Client struct {
    key   string
    model string
    http  *http.Client
    log   zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{ key: cfg.OpenAIKey, model: cfg.OpenAIModel, http: &http.Client{ Timeout: cfg.OpenAITimeout }, log: log }
}

// Highlight produces a one-paragraph note for the report header from
// aggregate counts only. Issue text never leaves the process.
func (c *Client) Highlight(ctx context.Context, stats report.Stats, perOwner map[string]int) (string, error) {
    if strings.TrimSpace(c.key) == "" { return "", errors.New("openai: missing key") }
    payload := map[string]any{"with_owner": stats.WithOwner, "without_owner": stats.WithoutOwner, "sampled_per_owner": perOwner}
    body := map[string]any{
        "model": c.model,
        "messages": []map[string]string{
            {"role":"system","content":"You write one short neutral sentence (max 30 words) summarizing a daily issue-audit: how many resolved issues, how many unassigned, anything notable in the per-owner counts. Plain text, no markdown."},
            {"role":"user","content": fmt.Sprintf("%v", payload)},
        },
        "temperature": 0.2,
    }
    b, _ := json.Marshal(body)
    req, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(b))
    req.Header.Set("Authorization", "Bearer "+c.key)
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return "", err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 { return "", fmt.Errorf("openai status=%d", resp.StatusCode) }
    var out struct{ Choices []struct{ Message struct{ Content string `json:"content"` } `json:"message"` } `json:"choices"` }
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil { return "", err }
    if len(out.Choices) == 0 { return "", errors.New("openai: no choices") }
    return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
