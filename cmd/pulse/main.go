/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/vrognas/positron-redmine/internal/config"
	httpapi "github.com/vrognas/positron-redmine/internal/http"
	"github.com/vrognas/positron-redmine/internal/jobs"
	"github.com/vrognas/positron-redmine/internal/logger"
	"github.com/vrognas/positron-redmine/internal/redmine"
	"github.com/vrognas/positron-redmine/internal/services"
)

type app struct {
	cfg config.Config
	log zerolog.Logger
	svc *services.Service
}

func main() {
	ctx := context.Background()
	a := &app{}

	var urlFlag, keyFlag, dateFlag string

	root := &cli.Command{
		Name:  "pulse",
		Usage: "Redmine workload and schedule-flexibility analytics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Usage:       "Redmine server URL (https only)",
				Sources:     cli.EnvVars("REDMINE_URL"),
				Destination: &urlFlag,
			},
			&cli.StringFlag{
				Name:        "key",
				Usage:       "Redmine API key",
				Sources:     cli.EnvVars("REDMINE_API_KEY"),
				Destination: &keyFlag,
			},
			&cli.StringFlag{
				Name:        "date",
				Usage:       "reference date YYYY-MM-DD (default: today)",
				Destination: &dateFlag,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			a.cfg = config.Load()
			if urlFlag != "" {
				a.cfg.RedmineURL = urlFlag
			}
			if keyFlag != "" {
				a.cfg.RedmineAPIKey = keyFlag
			}
			a.log = logger.New(a.cfg)

			opts := redmine.Options{
				Address:           a.cfg.RedmineURL,
				Key:               a.cfg.RedmineAPIKey,
				AdditionalHeaders: a.cfg.RedmineHeaders,
			}
			if a.cfg.APILog {
				opts.Logger = &a.log
			}
			server, err := redmine.NewServer(opts)
			if err != nil {
				return ctx, err
			}
			a.svc = services.New(a.cfg, a.log, server)
			return ctx, nil
		},
		Commands: []*cli.Command{
			issuesCmd(a),
			projectsCmd(a),
			workloadCmd(a, &dateFlag),
			flexCmd(a, &dateFlag),
			serveCmd(a),
		},
	}

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func refDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", dateFlag)
}

func issuesCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "issues",
		Usage: "List open issues assigned to you",
		Action: func(ctx context.Context, c *cli.Command) error {
			issues, err := a.svc.AssignedIssues(ctx)
			if err != nil {
				return err
			}
			for _, issue := range issues {
				due := "-"
				if issue.DueDate != nil {
					due = issue.DueDate.String()
				}
				fmt.Printf("#%-6d %-12s due %-10s %s\n", issue.ID, issue.Status.Name, due, issue.Subject)
			}
			return nil
		},
	}
}

func projectsCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "List all visible projects",
		Action: func(ctx context.Context, c *cli.Command) error {
			projects, err := a.svc.Projects(ctx)
			if err != nil {
				return err
			}
			for _, p := range projects {
				item := p.SelectionItem()
				fmt.Printf("%-30s %-20s %s\n", item.Label, item.Detail, item.Description)
			}
			return nil
		},
	}
}

func workloadCmd(a *app, dateFlag *string) *cli.Command {
	return &cli.Command{
		Name:  "workload",
		Usage: "Summarize your assigned workload for this week",
		Action: func(ctx context.Context, c *cli.Command) error {
			today, err := refDate(*dateFlag)
			if err != nil {
				return err
			}
			s, err := a.svc.Workload(ctx, today)
			if err != nil {
				return err
			}
			fmt.Printf("estimated:      %6.1fh\n", s.TotalEstimated)
			fmt.Printf("spent:          %6.1fh\n", s.TotalSpent)
			fmt.Printf("remaining:      %6.1fh\n", s.Remaining)
			fmt.Printf("available (wk): %6.1fh\n", s.AvailableThisWeek)
			fmt.Printf("buffer:         %6.1fh\n", s.Buffer)
			if len(s.TopUrgent) > 0 {
				fmt.Println("most urgent:")
				for _, issue := range s.TopUrgent {
					fmt.Printf("  #%-6d due %-10s %s\n", issue.ID, issue.DueDate.String(), issue.Subject)
				}
			}
			return nil
		},
	}
}

func flexCmd(a *app, dateFlag *string) *cli.Command {
	var issueArg string
	return &cli.Command{
		Name:  "flex",
		Usage: "Show schedule flexibility of one issue",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "issue", Usage: "issue id", Required: true, Destination: &issueArg},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			issueID, err := strconv.Atoi(issueArg)
			if err != nil {
				return fmt.Errorf("invalid issue id %q", issueArg)
			}
			today, err := refDate(*dateFlag)
			if err != nil {
				return err
			}
			f, err := a.svc.IssueFlexibility(ctx, issueID, today)
			if err != nil {
				return err
			}
			if f == nil {
				fmt.Println("not enough data (issue needs a due date and an estimate)")
				return nil
			}
			fmt.Printf("initial:   %+d%%\n", f.Initial)
			fmt.Printf("remaining: %+d%%\n", f.Remaining)
			fmt.Printf("status:    %s\n", f.Status)
			return nil
		},
	}
}

func serveCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP surface and the scheduled workload digest",
		Action: func(ctx context.Context, c *cli.Command) error {
			router := httpapi.NewRouter(a.cfg, a.log, a.svc)

			cr := jobs.NewCron(a.cfg, a.log, a.svc)
			cr.Start()
			defer cr.Stop()

			errCh := make(chan error, 1)
			go func() { errCh <- router.Run(a.cfg.HTTPAddr) }()
			a.log.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server started")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case <-sigCh:
				a.log.Info().Msg("shutting down...")
			case err := <-errCh:
				if err != nil {
					a.log.Error().Err(err).Msg("http server error")
					return err
				}
			}
			time.Sleep(500 * time.Millisecond)
			return nil
		},
	}
}
