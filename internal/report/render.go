/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "fmt"
    "html/template"
    "sort"
    "strings"
    "time"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/domain"
)

const consoleSummaryCap = 100

// Report renders one selection into its two output forms. Both forms
// enumerate owners in case-insensitive display-name order (ties broken on
// owner ID so repeated renders are byte-identical) and degrade missing
// fields to fixed placeholders instead of failing.
type Report struct {
    BaseURL   string
    Date      time.Time
    Selection map[domain.Owner][]domain.Issue
    Total     int
    Note      string
}

type issueLine struct {
    Key     string
    Summary string
    Owner   string
    URL     string
}

type ownerBlock struct {
    Name   string
    Count  int
    Issues []issueLine
}

type reportData struct {
    Preheader string
    Date      string
    Total     int
    Note      string
    Blocks    []ownerBlock
}

// The issue line shows the issue's own assignee, not the bucket owner. The
// two can disagree when an assignee exists without a display name (the block
// header says "Unknown", the line falls back to "(unassigned)"); kept as the
// source system behaves.
func (r Report) blocks() []ownerBlock {
    owners := make([]domain.Owner, 0, len(r.Selection))
    for o := range r.Selection { owners = append(owners, o) }
    sort.Slice(owners, func(i, j int) bool {
        li, lj := strings.ToLower(owners[i].Name), strings.ToLower(owners[j].Name)
        if li == lj { return owners[i].ID < owners[j].ID }
        return li < lj
    })
    base := strings.TrimRight(r.BaseURL, "/")
    out := make([]ownerBlock, 0, len(owners))
    for _, o := range owners {
        items := r.Selection[o]
        blk := ownerBlock{Name: o.Name, Count: len(items), Issues: make([]issueLine, 0, len(items))}
        for _, iss := range items {
            key := iss.Key
            if key == "" { key = fallbackKey }
            summary := iss.Summary
            if summary == "" { summary = fallbackSummary }
            ownerName := fallbackNoOwner
            if iss.Assignee != nil && iss.Assignee.Name != "" { ownerName = iss.Assignee.Name }
            blk.Issues = append(blk.Issues, issueLine{
                Key:     key,
                Summary: summary,
                Owner:   ownerName,
                URL:     base + "/browse/" + key,
            })
        }
        out = append(out, blk)
    }
    return out
}

var htmlTmpl = template.Must(template.New("audit").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="x-apple-disable-message-reformatting" />
  <meta name="color-scheme" content="light only" />
  <title>Resolved issues audit</title>
</head>
<body style="margin:0; padding:0; background-color:#faf6fa;">
  <div style="display:none; overflow:hidden; line-height:1px; opacity:0; max-height:0; max-width:0; mso-hide:all;">
    {{.Preheader}}
  </div>
  <table role="presentation" cellpadding="0" cellspacing="0" border="0" width="100%" style="background-color:#faf6fa;">
    <tr>
      <td align="center" style="padding:24px;">
        <table role="presentation" cellpadding="0" cellspacing="0" border="0" width="600" style="width:600px; max-width:600px; background:#ffffff; border:1px solid #eaeef2; border-radius:8px;">
          <tr>
            <td style="padding:24px; font-family:-apple-system,Segoe UI,Roboto,Arial,Helvetica,sans-serif; color:#0f172a; font-size:14px; line-height:1.6;">
              <h2 style="margin:0 0 8px 0; font-size:20px; line-height:1.3; color:#0f172a;">
                Audit of issues resolved on {{.Date}}
              </h2>
              <p style="margin:0 0 16px 0; color:#334155;">
                Total resolved issues: <strong style="color:#0f172a;">{{.Total}}</strong>
              </p>
{{- if .Note}}
              <p style="margin:0 0 16px 0; color:#334155;">{{.Note}}</p>
{{- end}}
{{- if not .Blocks}}
              <p style="margin:0; color:#334155;">
                <em>No issues found with an assigned analyst. Issues may be unassigned or the filter may not apply.</em>
              </p>
{{- end}}
{{- range .Blocks}}
              <div style="margin:16px 0; padding:12px; border:1px solid #e5e7eb; border-radius:8px;">
                <h3 style="margin:0 0 8px 0; font-size:16px; color:#0f172a;">
                  {{.Name}} <span style="color:#334155;">({{.Count}})</span>
                </h3>
                <ol style="margin:0; padding-left:20px;">
{{- range .Issues}}
                  <li style="margin:0 0 6px 0;">
                    <a href="{{.URL}}" style="color:#0b57d0; text-decoration:none;">{{.Key}}</a>
                    &nbsp;&mdash;&nbsp;{{.Summary}}
                    &nbsp;&mdash;&nbsp;<strong style="color:#0f172a;">{{.Owner}}</strong>
                  </li>
{{- end}}
                </ol>
              </div>
{{- end}}
              <p style="margin:16px 0 0 0; color:#334155; font-size:12px;">
                Automatically generated report. Do not reply to this email.
              </p>
            </td>
          </tr>
        </table>
        <div style="height:24px; line-height:24px;">&nbsp;</div>
      </td>
    </tr>
  </table>
</body>
</html>
`))

// HTML renders the self-contained email document. All user-supplied text
// passes through html/template's contextual escaping; structural markup
// lives only in the template itself.
func (r Report) HTML() (string, error) {
    dateStr := r.Date.Format("2006-01-02")
    data := reportData{
        Preheader: fmt.Sprintf("Total resolved issues: %d — %s", r.Total, dateStr),
        Date:      dateStr,
        Total:     r.Total,
        Note:      r.Note,
        Blocks:    r.blocks(),
    }
    var b strings.Builder
    if err := htmlTmpl.Execute(&b, data); err != nil { return "", err }
    return b.String(), nil
}

// Console renders the plain-text form with the same grouping and ordering.
func (r Report) Console() string {
    var b strings.Builder
    fmt.Fprintf(&b, "=== Audit summary (console) ===\n")
    fmt.Fprintf(&b, "Total resolved issues: %d\n", r.Total)
    if len(r.Selection) == 0 {
        b.WriteString("No issues found for the audit window.\n")
        return b.String()
    }
    if r.Note != "" { fmt.Fprintf(&b, "%s\n", r.Note) }
    for _, blk := range r.blocks() {
        fmt.Fprintf(&b, "\n%s (%d):\n", blk.Name, blk.Count)
        for _, line := range blk.Issues {
            fmt.Fprintf(&b, "  - %s — %s — Owner: %s — %s\n", line.Key, truncate(line.Summary, consoleSummaryCap), line.Owner, line.URL)
        }
    }
    return b.String()
}

// truncate caps s at max runes, replacing the tail with "..." when it is cut.
func truncate(s string, max int) string {
    r := []rune(s)
    if len(r) <= max { return s }
    return string(r[:max-3]) + "..."
}
