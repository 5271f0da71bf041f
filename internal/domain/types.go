package domain

import "time"

// Owner identifies the person an issue is assigned to.
type Owner struct {
    ID   string
    Name string
}

// Issue is one resolved work item as returned by the Jira search.
// Read-only within the pipeline; a nil Assignee means unassigned.
type Issue struct {
    Key        string
    Summary    string
    Assignee   *Owner
    Reporter   string
    ResolvedAt *time.Time
}
