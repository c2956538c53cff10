/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vrognas/positron-redmine/internal/analytics"
)

type Config struct {
	AppEnv   string
	TZ       string
	HTTPAddr string

	RedmineURL     string
	RedmineAPIKey  string
	RedmineHeaders map[string]string

	ScheduleFile string
	Schedule     analytics.WeeklySchedule

	DigestCron  string
	HTTPTimeout time.Duration
	APILog      bool
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func boolean(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes"
}

// parseHeaders parses "Name=Value,Name2=Value2" into a header map.
func parseHeaders(csv string) map[string]string {
	if csv == "" {
		return nil
	}
	out := map[string]string{}
	for _, p := range strings.Split(csv, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || name == "" {
			continue
		}
		out[name] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func Load() Config {
	cfg := Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		TZ:       getenv("APP_TZ", "UTC"),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		RedmineURL:     getenv("REDMINE_URL", ""),
		RedmineAPIKey:  getenv("REDMINE_API_KEY", ""),
		RedmineHeaders: parseHeaders(getenv("REDMINE_HEADERS", "")),

		ScheduleFile: getenv("SCHEDULE_FILE", "config/schedule.yaml"),

		DigestCron:  getenv("CRON_SPEC", "0 10 * * FRI"),
		HTTPTimeout: dur("HTTP_TIMEOUT", 15*time.Second),
		APILog:      boolean("API_LOG", false),
	}

	if loc, err := time.LoadLocation(cfg.TZ); err == nil {
		time.Local = loc
	} else {
		log.Printf("warning: cannot load TZ %s: %v", cfg.TZ, err)
	}

	sched, err := LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		log.Printf("warning: cannot load schedule %s: %v; using default", cfg.ScheduleFile, err)
		sched = analytics.DefaultSchedule()
	}
	cfg.Schedule = sched
	return cfg
}

var weekdays = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

// LoadSchedule reads a weekly working-hours template from a YAML file mapping
// day names to hours, e.g. "mon: 8". A missing file yields the default
// schedule; an unknown day name or negative hours is an error.
func LoadSchedule(path string) (analytics.WeeklySchedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return analytics.DefaultSchedule(), nil
		}
		return nil, err
	}
	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	sched := analytics.WeeklySchedule{}
	for name, hours := range raw {
		wd, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown day name %q", name)
		}
		if hours < 0 {
			return nil, fmt.Errorf("negative hours for %s", name)
		}
		sched[wd] = hours
	}
	return sched, nil
}
