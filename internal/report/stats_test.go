package report

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/domain"
)

func TestSummarize_CountsOwnership(t *testing.T) {
    issues := []domain.Issue{
        {Key: "OPS-1", Assignee: &domain.Owner{ID: "A1", Name: "Ana"}},
        {Key: "OPS-2", Assignee: &domain.Owner{ID: "A1", Name: "Ana"}},
        {Key: "OPS-3"},
    }
    st := Summarize(issues)
    assert.Equal(t, 2, st.WithOwner)
    assert.Equal(t, 1, st.WithoutOwner)
    assert.Equal(t, len(issues), st.WithOwner+st.WithoutOwner)
}

func TestSummarize_Empty(t *testing.T) {
    st := Summarize(nil)
    assert.Zero(t, st.WithOwner)
    assert.Zero(t, st.WithoutOwner)
}
