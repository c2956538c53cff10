/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package redmine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// projectsPageSize is the fixed page size for the paginated project fetch.
const projectsPageSize = 50

// IssuesAssignedToMe fetches the caller's open issues.
func (s *Server) IssuesAssignedToMe(ctx context.Context) (*IssuePage, error) {
	q := url.Values{}
	q.Set("assigned_to_id", "me")
	q.Set("status_id", "open")
	var out IssuePage
	if err := s.doer.Do(ctx, http.MethodGet, "/issues.json?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IssueByID fetches one issue with its current server state.
func (s *Server) IssueByID(ctx context.Context, id int) (*Issue, error) {
	var out issueResponse
	if err := s.doer.Do(ctx, http.MethodGet, fmt.Sprintf("/issues/%d.json", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Issue, nil
}

// OpenIssuesForProject fetches open issues of one project, optionally
// including its subprojects.
func (s *Server) OpenIssuesForProject(ctx context.Context, projectID int, includeSubprojects bool) (*IssuePage, error) {
	q := url.Values{}
	q.Set("project_id", strconv.Itoa(projectID))
	q.Set("status_id", "open")
	if !includeSubprojects {
		q.Set("subproject_id", "!*")
	}
	var out IssuePage
	if err := s.doer.Do(ctx, http.MethodGet, "/issues.json?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetIssueStatus moves the issue to the given status. The server may answer
// success without applying a disallowed transition; use ApplyQuickUpdate when
// the change must be verified.
func (s *Server) SetIssueStatus(ctx context.Context, issue *Issue, statusID int) error {
	body := map[string]any{"issue": map[string]any{"status_id": statusID}}
	var ack struct {
		Success bool `json:"success"`
	}
	return s.doer.Do(ctx, http.MethodPut, fmt.Sprintf("/issues/%d.json", issue.ID), body, &ack)
}

// AddTimeEntry logs hours against an issue under the given activity.
func (s *Server) AddTimeEntry(ctx context.Context, issueID, activityID int, hours float64, comment string) (*TimeEntry, error) {
	body := map[string]any{"time_entry": map[string]any{
		"issue_id":    issueID,
		"activity_id": activityID,
		"hours":       hours,
		"comments":    comment,
	}}
	var out timeEntryResponse
	if err := s.doer.Do(ctx, http.MethodPost, "/time_entries.json", body, &out); err != nil {
		return nil, err
	}
	return &out.TimeEntry, nil
}

// CreateIssue creates an issue and returns the server's view of it.
func (s *Server) CreateIssue(ctx context.Context, fields IssueFields) (*Issue, error) {
	body := map[string]any{"issue": fields}
	var out issueResponse
	if err := s.doer.Do(ctx, http.MethodPost, "/issues.json", body, &out); err != nil {
		return nil, err
	}
	return &out.Issue, nil
}

// Projects fetches every project the key can see, walking offset pages until
// the accumulated count reaches the server-reported total. Order follows the
// server's response order, concatenated by page; a failure on any page aborts
// the whole fetch.
func (s *Server) Projects(ctx context.Context) ([]Project, error) {
	limit := s.pageSize
	if limit <= 0 {
		limit = projectsPageSize
	}
	var all []Project
	for offset := 0; ; {
		q := url.Values{}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(limit))
		var page projectsResponse
		if err := s.doer.Do(ctx, http.MethodGet, "/projects.json?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Projects...)
		if len(all) >= page.TotalCount || len(page.Projects) == 0 {
			return all, nil
		}
		// Advance by what the server actually returned; servers may cap the
		// requested limit.
		offset += len(page.Projects)
	}
}

// Memberships fetches the members of a project. A record carrying a user
// identity is a person; anything else is a group.
func (s *Server) Memberships(ctx context.Context, projectID int) ([]Membership, error) {
	var out membershipsResponse
	path := fmt.Sprintf("/projects/%d/memberships.json", projectID)
	if err := s.doer.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	members := make([]Membership, 0, len(out.Memberships))
	for _, m := range out.Memberships {
		switch {
		case m.User != nil:
			members = append(members, Membership{ID: m.User.ID, Name: m.User.Name, IsUser: true})
		case m.Group != nil:
			members = append(members, Membership{ID: m.Group.ID, Name: m.Group.Name})
		}
	}
	return members, nil
}

// Trackers fetches the tracker list. Not cached; the list is only needed while
// composing a new issue.
func (s *Server) Trackers(ctx context.Context) ([]NamedEntity, error) {
	var out trackersResponse
	if err := s.doer.Do(ctx, http.MethodGet, "/trackers.json", nil, &out); err != nil {
		return nil, err
	}
	return out.Trackers, nil
}

// Priorities fetches the issue priority enumeration. Not cached.
func (s *Server) Priorities(ctx context.Context) ([]NamedEntity, error) {
	var out prioritiesResponse
	if err := s.doer.Do(ctx, http.MethodGet, "/enumerations/issue_priorities.json", nil, &out); err != nil {
		return nil, err
	}
	return out.IssuePriorities, nil
}
