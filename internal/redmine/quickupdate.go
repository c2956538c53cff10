/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package redmine

import (
	"context"
	"fmt"
	"net/http"
)

// QuickUpdate is a coordinated status+assignee+note change for one issue. It
// is a transient command, not persisted anywhere.
type QuickUpdate struct {
	IssueID  int
	Status   IssueStatus
	Assignee Membership
	Note     string
}

// QuickUpdateResult lists the parts of a quick update the server did not
// apply. An empty Differences means the update was fully confirmed.
type QuickUpdateResult struct {
	Differences []string
}

// Applied reports whether every part of the update was confirmed.
func (r *QuickUpdateResult) Applied() bool { return len(r.Differences) == 0 }

// ApplyQuickUpdate sends the status, assignee and note in one mutation, then
// re-fetches the issue and compares its state against the command. Redmine
// answers success even when a workflow rule silently rejects a transition, so
// verification-by-refetch is the only reliable signal. Mismatches are reported
// in the result; only a transport failure in one of the network steps returns
// an error.
func (s *Server) ApplyQuickUpdate(ctx context.Context, update QuickUpdate) (*QuickUpdateResult, error) {
	fields := map[string]any{
		"status_id":      update.Status.ID,
		"assigned_to_id": update.Assignee.ID,
	}
	if update.Note != "" {
		fields["notes"] = update.Note
	}
	var ack struct {
		Success bool `json:"success"`
	}
	path := fmt.Sprintf("/issues/%d.json", update.IssueID)
	if err := s.doer.Do(ctx, http.MethodPut, path, map[string]any{"issue": fields}, &ack); err != nil {
		return nil, err
	}

	issue, err := s.IssueByID(ctx, update.IssueID)
	if err != nil {
		return nil, err
	}

	result := &QuickUpdateResult{}
	if issue.Status.ID != update.Status.ID {
		result.Differences = append(result.Differences, "Couldn't update status")
	}
	if issue.AssignedTo.ID != update.Assignee.ID {
		result.Differences = append(result.Differences, "Couldn't assign user")
	}
	return result, nil
}
