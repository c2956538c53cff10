/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package redmine

import (
	"encoding/json"
	"time"
)

// NamedEntity is an id+label reference to a status, tracker, user or project.
// The client never dereferences these further.
type NamedEntity struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Date is a calendar day in the server's YYYY-MM-DD wire format.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Issue is produced only by deserializing server responses; it is never
// mutated locally except by re-fetch.
type Issue struct {
	ID              int         `json:"id"`
	Project         NamedEntity `json:"project"`
	Tracker         NamedEntity `json:"tracker"`
	Status          NamedEntity `json:"status"`
	Priority        NamedEntity `json:"priority"`
	Author          NamedEntity `json:"author"`
	AssignedTo      NamedEntity `json:"assigned_to"`
	Subject         string      `json:"subject"`
	Description     string      `json:"description"`
	StartDate       *Date       `json:"start_date"`
	DueDate         *Date       `json:"due_date"`
	DoneRatio       int         `json:"done_ratio"`
	IsPrivate       bool        `json:"is_private"`
	EstimatedHours  *float64    `json:"estimated_hours"`
	SpentHours      *float64    `json:"spent_hours"`
	TotalSpentHours *float64    `json:"total_spent_hours"`
	CreatedOn       time.Time   `json:"created_on"`
	UpdatedOn       time.Time   `json:"updated_on"`
	ClosedOn        *time.Time  `json:"closed_on"`
}

// Project carries a weak back-reference to its parent; the client stores the
// reference and never walks the hierarchy itself.
type Project struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Identifier  string       `json:"identifier"`
	Parent      *NamedEntity `json:"parent,omitempty"`
}

type IssueStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Membership is a project member: a person or a group. Quick-update targeting
// requires IsUser.
type Membership struct {
	ID     int
	Name   string
	IsUser bool
}

// TimeEntry is the server's acknowledgment of a logged time entry.
type TimeEntry struct {
	ID int `json:"id"`
}

// IssuePage is one server response of issues plus the total across all pages.
type IssuePage struct {
	Issues     []Issue `json:"issues"`
	TotalCount int     `json:"total_count"`
}

// IssueFields are the writable fields of a new issue. Zero/nil optional fields
// are omitted from the request.
type IssueFields struct {
	ProjectID      int      `json:"project_id"`
	TrackerID      int      `json:"tracker_id"`
	PriorityID     int      `json:"priority_id,omitempty"`
	Subject        string   `json:"subject"`
	Description    string   `json:"description,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	DueDate        *Date    `json:"due_date,omitempty"`
	ParentIssueID  int      `json:"parent_issue_id,omitempty"`
}

type issueResponse struct {
	Issue Issue `json:"issue"`
}

type projectsResponse struct {
	Projects   []Project `json:"projects"`
	TotalCount int       `json:"total_count"`
}

type issueStatusesResponse struct {
	IssueStatuses []IssueStatus `json:"issue_statuses"`
}

type activitiesResponse struct {
	TimeEntryActivities []NamedEntity `json:"time_entry_activities"`
}

type trackersResponse struct {
	Trackers []NamedEntity `json:"trackers"`
}

type prioritiesResponse struct {
	IssuePriorities []NamedEntity `json:"issue_priorities"`
}

type timeEntryResponse struct {
	TimeEntry TimeEntry `json:"time_entry"`
}

// membershipRecord distinguishes person members from group members by which
// identity field the server filled in.
type membershipRecord struct {
	ID    int          `json:"id"`
	User  *NamedEntity `json:"user"`
	Group *NamedEntity `json:"group"`
}

type membershipsResponse struct {
	Memberships []membershipRecord `json:"memberships"`
}
