/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package redmine is a client for the Redmine REST API: connection validation,
// a JSON-over-HTTPS request executor, cached reference data, issue/project/
// time-entry operations and a verify-by-refetch quick update.
package redmine

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Server is an immutable connection to one Redmine instance plus the
// reference-data caches scoped to it. Create one with NewServer and share it;
// all methods are safe for concurrent use.
type Server struct {
	base    *url.URL
	key     string
	headers map[string]string
	doer    Doer

	// pageSize overrides the project page size; 0 means projectsPageSize.
	pageSize int

	// Reference data is fetched once per Server lifetime. singleflight keeps
	// concurrent first calls down to a single network request; a failed fetch
	// is not cached.
	sf         singleflight.Group
	mu         sync.Mutex
	statuses   []IssueStatus
	statusesOK bool
	activities []NamedEntity
	activOK    bool
}

// NewServer validates opts and returns a connected client. It fails with
// *OptionsError on an empty or non-absolute address, a non-https scheme or an
// empty API key; nothing is validated again at call time.
func NewServer(opts Options) (*Server, error) {
	base, err := opts.validate()
	if err != nil {
		return nil, err
	}
	var doer Doer = newTransport(base, opts.Key, opts.AdditionalHeaders, opts.HTTPClient)
	if opts.Logger != nil {
		doer = NewLoggingDoer(doer, *opts.Logger)
	}
	return &Server{
		base:    base,
		key:     opts.Key,
		headers: opts.AdditionalHeaders,
		doer:    doer,
	}, nil
}

// Compare reports whether other points at the same logical Redmine instance:
// identical base address and API key, compared as strings with no
// normalization. Additional headers are not part of server identity. Callers
// use this to avoid holding duplicate clients for one server.
func (s *Server) Compare(other *Server) bool {
	return other != nil && s.base.String() == other.base.String() && s.key == other.key
}

// IssueStatuses returns the server's status list, fetching it at most once per
// Server lifetime. There is no TTL and no invalidation; discard the Server to
// force a refresh.
func (s *Server) IssueStatuses(ctx context.Context) ([]IssueStatus, error) {
	s.mu.Lock()
	if s.statusesOK {
		v := s.statuses
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()
	v, err, _ := s.sf.Do("issue_statuses", func() (any, error) {
		s.mu.Lock()
		if s.statusesOK {
			v := s.statuses
			s.mu.Unlock()
			return v, nil
		}
		s.mu.Unlock()
		var out issueStatusesResponse
		if err := s.doer.Do(ctx, http.MethodGet, "/issue_statuses.json", nil, &out); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.statuses = out.IssueStatuses
		s.statusesOK = true
		s.mu.Unlock()
		return out.IssueStatuses, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]IssueStatus), nil
}

// TimeEntryActivities returns the server's activity list, cached like
// IssueStatuses.
func (s *Server) TimeEntryActivities(ctx context.Context) ([]NamedEntity, error) {
	s.mu.Lock()
	if s.activOK {
		v := s.activities
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()
	v, err, _ := s.sf.Do("time_entry_activities", func() (any, error) {
		s.mu.Lock()
		if s.activOK {
			v := s.activities
			s.mu.Unlock()
			return v, nil
		}
		s.mu.Unlock()
		var out activitiesResponse
		if err := s.doer.Do(ctx, http.MethodGet, "/time_entry_activities.json", nil, &out); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.activities = out.TimeEntryActivities
		s.activOK = true
		s.mu.Unlock()
		return out.TimeEntryActivities, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]NamedEntity), nil
}
