/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package redmine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Doer issues one API request. Implementations serialize body as JSON when
// non-nil, attach authentication headers and decode the response body into out
// when out is non-nil. The response body is decoded regardless of HTTP status:
// status interpretation is left to callers, matching the server's habit of
// answering errors with JSON payloads.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

type transport struct {
	base    *url.URL
	key     string
	headers map[string]string
	http    *http.Client
}

func newTransport(base *url.URL, key string, headers map[string]string, client *http.Client) *transport {
	if client == nil {
		client = &http.Client{}
	}
	return &transport{base: base, key: key, headers: headers, http: client}
}

func (t *transport) Do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("redmine: marshal %s %s: %w", method, path, err)
		}
		r = bytes.NewReader(b)
	}
	u := strings.TrimRight(t.base.String(), "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return fmt.Errorf("redmine: build %s %s: %w", method, path, err)
	}
	req.Header.Set("X-Redmine-API-Key", t.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("redmine: decode %s %s: %w", method, path, err)
	}
	return nil
}
