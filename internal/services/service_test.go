package services

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/config"
    "github.com/QuirozDev8/automation-incidentes-vs/internal/domain"
)

type fakeJira struct {
    issues []domain.Issue
    err    error
    jql    string
}

func (f *fakeJira) SearchResolved(ctx context.Context, jql string) ([]domain.Issue, error) {
    f.jql = jql
    return f.issues, f.err
}

type fakeMailer struct {
    subject string
    html    string
    calls   int
}

func (f *fakeMailer) Send(ctx context.Context, subject, htmlBody string) error {
    f.calls++
    f.subject = subject
    f.html = htmlBody
    return nil
}

func testConfig() config.Config {
    return config.Config{
        TZ:                 "UTC",
        JiraBaseURL:        "https://acme.atlassian.net",
        JiraProjects:       []string{"OPS"},
        JiraResolvedStatus: "Resolved",
        SamplePerOwner:     2,
        SampleSeed:         7,
        DryRun:             false,
    }
}

func TestRunDailyAudit_SendsRenderedReport(t *testing.T) {
    ana := &domain.Owner{ID: "A1", Name: "Ana"}
    jc := &fakeJira{issues: []domain.Issue{
        {Key: "OPS-1", Summary: "first", Assignee: ana},
        {Key: "OPS-2", Summary: "second", Assignee: ana},
        {Key: "OPS-3", Summary: "third", Assignee: ana},
        {Key: "OPS-4", Summary: "stray"},
    }}
    mail := &fakeMailer{}
    svc := New(testConfig(), zerolog.Nop(), nil, jc, mail, nil)

    require.NoError(t, svc.RunDailyAudit(context.Background()))

    assert.Contains(t, jc.jql, "project in (OPS)")
    assert.Contains(t, jc.jql, `status CHANGED TO "Resolved"`)

    require.Equal(t, 1, mail.calls)
    yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
    assert.Equal(t, "[Audit] Issues resolved on "+yesterday, mail.subject)
    assert.Contains(t, mail.html, "Total resolved issues: <strong")
    assert.Contains(t, mail.html, ">4</strong>")
    assert.Contains(t, mail.html, "Ana <span")
    assert.Contains(t, mail.html, "(unassigned)")
    assert.Contains(t, mail.html, "/browse/OPS-4")
}

func TestRunDailyAudit_EmptyFetchStillDelivers(t *testing.T) {
    mail := &fakeMailer{}
    svc := New(testConfig(), zerolog.Nop(), nil, &fakeJira{}, mail, nil)

    require.NoError(t, svc.RunDailyAudit(context.Background()))
    require.Equal(t, 1, mail.calls)
    assert.Contains(t, mail.html, "No issues found with an assigned analyst")
}

func TestRunDailyAudit_FetchErrorAborts(t *testing.T) {
    mail := &fakeMailer{}
    svc := New(testConfig(), zerolog.Nop(), nil, &fakeJira{err: errors.New("boom")}, mail, nil)

    err := svc.RunDailyAudit(context.Background())
    require.Error(t, err)
    assert.Contains(t, err.Error(), "fetch")
    assert.Zero(t, mail.calls)
}

func TestPreview_RendersWithoutSending(t *testing.T) {
    jc := &fakeJira{issues: []domain.Issue{{Key: "OPS-1", Summary: "s", Assignee: &domain.Owner{ID: "A1", Name: "Ana"}}}}
    mail := &fakeMailer{}
    svc := New(testConfig(), zerolog.Nop(), nil, jc, mail, nil)

    html, err := svc.Preview(context.Background())
    require.NoError(t, err)
    assert.Contains(t, html, "OPS-1")
    assert.Zero(t, mail.calls)
}

func TestRunDailyAudit_SeededSamplerBoundsSelection(t *testing.T) {
    ana := &domain.Owner{ID: "A1", Name: "Ana"}
    var issues []domain.Issue
    for i := 0; i < 10; i++ {
        issues = append(issues, domain.Issue{Key: "OPS-" + string(rune('0'+i)), Summary: "s", Assignee: ana})
    }
    jc := &fakeJira{issues: issues}
    mail := &fakeMailer{}
    svc := New(testConfig(), zerolog.Nop(), nil, jc, mail, nil)

    require.NoError(t, svc.RunDailyAudit(context.Background()))
    assert.Contains(t, mail.html, "Ana <span style=\"color:#334155;\">(2)</span>")
}
