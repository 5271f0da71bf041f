package report

import (
    "fmt"
    "math/rand"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/domain"
)

func makeGroup(owner domain.Owner, n int) []domain.Issue {
    items := make([]domain.Issue, 0, n)
    for i := 0; i < n; i++ {
        items = append(items, domain.Issue{Key: fmt.Sprintf("%s-%d", owner.ID, i), Assignee: &owner})
    }
    return items
}

func TestSampler_BoundProperty(t *testing.T) {
    ana := domain.Owner{ID: "A1", Name: "Ana"}
    bruno := domain.Owner{ID: "B1", Name: "Bruno"}
    groups := map[domain.Owner][]domain.Issue{
        ana:   makeGroup(ana, 10),
        bruno: makeGroup(bruno, 2),
    }
    for _, k := range []int{0, 1, 2, 5, 10, 50} {
        sel := NewSampler(rand.New(rand.NewSource(7))).Pick(groups, k)
        require.Len(t, sel, 2)
        for owner, items := range sel {
            want := k
            if want > len(groups[owner]) { want = len(groups[owner]) }
            assert.Len(t, items, want, "owner %s with k=%d", owner.Name, k)
        }
    }
}

func TestSampler_ZeroOrNegativeBoundSelectsNothing(t *testing.T) {
    ana := domain.Owner{ID: "A1", Name: "Ana"}
    groups := map[domain.Owner][]domain.Issue{ana: makeGroup(ana, 5)}
    for _, k := range []int{0, -1, -100} {
        sel := NewSampler(nil).Pick(groups, k)
        items, ok := sel[ana]
        require.True(t, ok, "owner entry is kept even at k=%d", k)
        assert.Empty(t, items)
    }
}

func TestSampler_SmallGroupFullyIncluded(t *testing.T) {
    ana := domain.Owner{ID: "A1", Name: "Ana"}
    groups := map[domain.Owner][]domain.Issue{ana: makeGroup(ana, 3)}
    sel := NewSampler(rand.New(rand.NewSource(1))).Pick(groups, 10)
    assert.ElementsMatch(t, groups[ana], sel[ana])
}

func TestSampler_NoReplacement(t *testing.T) {
    ana := domain.Owner{ID: "A1", Name: "Ana"}
    groups := map[domain.Owner][]domain.Issue{ana: makeGroup(ana, 20)}
    sel := NewSampler(rand.New(rand.NewSource(3))).Pick(groups, 20)
    keys := map[string]bool{}
    for _, iss := range sel[ana] {
        require.False(t, keys[iss.Key], "issue %s sampled twice", iss.Key)
        keys[iss.Key] = true
    }
}

func TestSampler_SeededSourceIsReproducible(t *testing.T) {
    ana := domain.Owner{ID: "A1", Name: "Ana"}
    bruno := domain.Owner{ID: "B1", Name: "Bruno"}
    groups := map[domain.Owner][]domain.Issue{
        ana:   makeGroup(ana, 15),
        bruno: makeGroup(bruno, 8),
    }
    first := NewSampler(rand.New(rand.NewSource(42))).Pick(groups, 4)
    second := NewSampler(rand.New(rand.NewSource(42))).Pick(groups, 4)
    assert.Equal(t, first, second)
}

func TestSampler_EmptyGroupsYieldEmptySelection(t *testing.T) {
    sel := NewSampler(nil).Pick(map[domain.Owner][]domain.Issue{}, 3)
    assert.Empty(t, sel)
}
