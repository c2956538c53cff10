/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package redmine

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/vrognas/positron-redmine/internal/redact"
)

// LoggingDoer wraps a Doer and logs every request with a per-client id, the
// outcome and its duration. It never changes what the wrapped call returns.
type LoggingDoer struct {
	next    Doer
	log     zerolog.Logger
	counter atomic.Int64
}

func NewLoggingDoer(next Doer, log zerolog.Logger) *LoggingDoer {
	return &LoggingDoer{next: next, log: log}
}

func (d *LoggingDoer) Do(ctx context.Context, method, path string, body, out any) error {
	id := d.counter.Add(1)
	ev := d.log.Info().Int64("req", id).Str("method", method).Str("path", path)
	if body != nil && d.log.GetLevel() <= zerolog.DebugLevel {
		if b, err := json.Marshal(body); err == nil {
			ev = ev.Str("body", redact.String(string(b)))
		}
	}
	ev.Msg("api request")

	start := time.Now()
	err := d.next.Do(ctx, method, path, body, out)
	elapsed := time.Since(start)
	if err != nil {
		d.log.Error().Int64("req", id).Err(err).Dur("duration", elapsed).Msg("api error")
		return err
	}
	d.log.Info().Int64("req", id).Dur("duration", elapsed).Msg("api response")
	return nil
}
