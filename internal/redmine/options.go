/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package redmine

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// Options describe one Redmine server connection. Address must be an absolute
// https URL; there is no flag to allow plain http.
type Options struct {
	Address string
	// Key is the API key sent as the X-Redmine-API-Key header on every request.
	Key string
	// AdditionalHeaders are attached to every request. They are not part of
	// server identity (see Server.Compare).
	AdditionalHeaders map[string]string
	// Logger enables the request/response logging decorator when non-nil.
	// Logging never changes what a call returns.
	Logger *zerolog.Logger
	// HTTPClient overrides the default transport client. Used by callers that
	// need custom TLS roots. The client deliberately carries no timeout of its
	// own; callers bound requests through context.
	HTTPClient *http.Client
}

func (o Options) validate() (*url.URL, error) {
	if o.Address == "" {
		return nil, &OptionsError{Reason: "server address is empty"}
	}
	u, err := url.Parse(o.Address)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, &OptionsError{Reason: "server address is not a valid URL: " + o.Address}
	}
	if u.Scheme != "https" {
		return nil, &OptionsError{Reason: "HTTPS required: " + o.Address}
	}
	if o.Key == "" {
		return nil, &OptionsError{Reason: "API key is empty"}
	}
	return u, nil
}
