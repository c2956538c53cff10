package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/vrognas/positron-redmine/internal/config"
)

type service interface {
	RunWorkloadDigest(ctx context.Context) error
	ClearFlexibilityCache()
}

type Cron struct {
	cfg config.Config
	log zerolog.Logger
	svc service
	c   *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service) *Cron {
	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
	cr := &Cron{cfg: cfg, log: log, svc: svc, c: c}
	// DigestCron comes from the environment; a typo must not kill the digest
	// silently.
	if _, err := c.AddFunc(cfg.DigestCron, cr.digest); err != nil {
		log.Error().Err(err).Str("cron", cfg.DigestCron).Msg("cron: invalid digest schedule, digest disabled")
	}
	// Cache entries are keyed by issue state and day; the midnight sweep only
	// caps growth.
	_, _ = c.AddFunc("0 0 * * *", svc.ClearFlexibilityCache)
	return cr
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

func (cr *Cron) digest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	cr.log.Info().Msg("cron: workload digest")
	if err := cr.svc.RunWorkloadDigest(ctx); err != nil {
		cr.log.Error().Err(err).Msg("cron: digest failed")
	}
}
