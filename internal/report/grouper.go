/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "github.com/QuirozDev8/automation-incidentes-vs/internal/domain"
)

// Unassigned is the sentinel bucket for issues without an assignee.
var Unassigned = domain.Owner{ID: "UNASSIGNED", Name: "(unassigned)"}

// Fallback strings for missing fields, shared by the HTML and console
// renderers so the two forms can never disagree on placeholders.
const (
    fallbackName    = "Unknown"
    fallbackNoOwner = "(unassigned)"
    fallbackSummary = "(no summary)"
    fallbackKey     = "(no key)"
)

// GroupByOwner partitions issues into buckets keyed by owner identity.
// The partition is stable: each issue keeps its relative order inside its
// bucket. Issues without an assignee land in the Unassigned bucket; an
// assignee without a display name gets the "Unknown" placeholder. Never
// produces an empty bucket and never fails on partial records.
func GroupByOwner(issues []domain.Issue) map[domain.Owner][]domain.Issue {
    groups := map[domain.Owner][]domain.Issue{}
    for _, iss := range issues {
        key := Unassigned
        if iss.Assignee != nil {
            name := iss.Assignee.Name
            if name == "" { name = fallbackName }
            key = domain.Owner{ID: iss.Assignee.ID, Name: name}
        }
        groups[key] = append(groups[key], iss)
    }
    return groups
}
