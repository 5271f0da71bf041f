/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "math/rand"
    "sort"
    "time"

    "github.com/QuirozDev8/automation-incidentes-vs/internal/domain"
)

// Sampler picks bounded uniform random subsets per owner. The random source
// is injected so tests can fix a seed and replay a selection.
type Sampler struct {
    rng *rand.Rand
}

// NewSampler wraps the given source; a nil rng falls back to a time-seeded one.
func NewSampler(rng *rand.Rand) *Sampler {
    if rng == nil { rng = rand.New(rand.NewSource(time.Now().UnixNano())) }
    return &Sampler{rng: rng}
}

// Pick returns, for every owner present in groups, a uniform random subset
// without replacement of size min(k, len(group)). A bound of zero or less is
// valid policy and yields an empty selection per owner, keeping the map entry
// so the renderer still lists the owner with a zero count. Never fails.
func (s *Sampler) Pick(groups map[domain.Owner][]domain.Issue, k int) map[domain.Owner][]domain.Issue {
    // owners are visited in a fixed order so a seeded source replays the
    // exact same selection
    owners := make([]domain.Owner, 0, len(groups))
    for o := range groups { owners = append(owners, o) }
    sort.Slice(owners, func(i, j int) bool {
        if owners[i].Name == owners[j].Name { return owners[i].ID < owners[j].ID }
        return owners[i].Name < owners[j].Name
    })
    selection := make(map[domain.Owner][]domain.Issue, len(groups))
    for _, owner := range owners {
        items := groups[owner]
        n := k
        if n < 0 { n = 0 }
        if n > len(items) { n = len(items) }
        chosen := make([]domain.Issue, 0, n)
        for _, idx := range s.rng.Perm(len(items))[:n] {
            chosen = append(chosen, items[idx])
        }
        selection[owner] = chosen
    }
    return selection
}
