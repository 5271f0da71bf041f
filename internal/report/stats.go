/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "github.com/QuirozDev8/automation-incidentes-vs/internal/domain"
)

// Stats counts owned vs unassigned issues over the raw fetch result.
type Stats struct {
    WithOwner    int
    WithoutOwner int
}

// Summarize is purely informational; WithOwner+WithoutOwner == len(issues).
func Summarize(issues []domain.Issue) Stats {
    st := Stats{}
    for _, iss := range issues {
        if iss.Assignee != nil { st.WithOwner++ } else { st.WithoutOwner++ }
    }
    return st
}
