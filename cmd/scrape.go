package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutgrid/jobharvest/internal/model"
	"github.com/scoutgrid/jobharvest/internal/scrape"
	"github.com/scoutgrid/jobharvest/pkg/jobboard"
)

var (
	scrapeSites   []string
	scrapeRecord  bool
	scrapeCompact bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <keywords> [location] [results] [hours_old]",
	Short: "Scrape job listings and print the JSON envelope to stdout",
	Long: `Searches the configured boards for each comma-separated keyword, merges
and deduplicates the listings, and prints a JSON envelope to stdout.
Diagnostics go to stderr; stdout carries only the envelope.`,
	Args: cobra.MaximumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		params, err := scrapeParams(args)
		if err != nil {
			// Emit a valid error envelope before failing so piped
			// consumers never see a partial or empty document.
			env := model.NewEnvelope(nil, params.Location, nil)
			if werr := writeEnvelope(cmd.OutOrStdout(), env, scrapeCompact); werr != nil {
				return werr
			}
			zap.L().Error("invalid scrape invocation", zap.Error(err))
			return err
		}

		agg, err := newAggregator()
		if err != nil {
			return err
		}

		env := agg.Run(ctx, params)

		if err := writeEnvelope(cmd.OutOrStdout(), env, scrapeCompact); err != nil {
			return err
		}

		recordRun(ctx, env)
		return nil
	},
}

// scrapeParams resolves positional arguments against configured defaults.
func scrapeParams(args []string) (scrape.Params, error) {
	p := scrape.Params{
		Location:      cfg.Scrape.Location,
		ResultsWanted: cfg.Scrape.ResultsWanted,
		HoursOld:      cfg.Scrape.HoursOld,
	}

	if len(args) == 0 {
		return p, eris.New("no keywords given")
	}
	p.Keywords = parseKeywords(args[0])
	if len(p.Keywords) == 0 {
		return p, eris.New("no keywords given")
	}

	if len(args) > 1 {
		p.Location = args[1]
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 1 {
			return p, eris.Errorf("invalid results count %q", args[2])
		}
		p.ResultsWanted = n
	}
	if len(args) > 3 {
		n, err := strconv.Atoi(args[3])
		if err != nil || n < 0 {
			return p, eris.Errorf("invalid hours_old %q", args[3])
		}
		p.HoursOld = n
	}

	return p, nil
}

// parseKeywords splits a comma-separated keyword list, dropping blanks.
func parseKeywords(s string) []string {
	var keywords []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// newAggregator builds the board scraper from config and flags.
func newAggregator() (*scrape.Aggregator, error) {
	sites := cfg.Scrape.Sites
	if len(scrapeSites) > 0 {
		sites = scrapeSites
	}

	multi, err := jobboard.FromSites(sites, cfg.Scrape.MaxConcurrentSites, jobboard.Settings{
		UserAgent:       cfg.HTTP.UserAgent,
		TimeoutSecs:     cfg.HTTP.TimeoutSecs,
		MaxRetries:      cfg.HTTP.MaxRetries,
		RatePerSec:      cfg.HTTP.RatePerSec,
		Burst:           cfg.HTTP.Burst,
		LinkedInBaseURL: cfg.Boards.LinkedInBaseURL,
		IndeedBaseURL:   cfg.Boards.IndeedBaseURL,
	})
	if err != nil {
		return nil, err
	}
	return scrape.New(multi), nil
}

// writeEnvelope marshals the envelope to w. Marshal errors go to the
// caller before any bytes are written, so stdout is valid JSON or empty.
func writeEnvelope(w io.Writer, env *model.Envelope, compact bool) error {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(env)
	} else {
		data, err = json.MarshalIndent(env, "", "  ")
	}
	if err != nil {
		return eris.Wrap(err, "marshal envelope")
	}
	_, err = fmt.Fprintln(w, string(data))
	return eris.Wrap(err, "write envelope")
}

// recordRun persists the run when the store is enabled. Best-effort.
func recordRun(ctx context.Context, env *model.Envelope) {
	if !cfg.Store.Enabled && !scrapeRecord {
		return
	}

	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("run recording skipped", zap.Error(err))
		return
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("run recording skipped", zap.Error(err))
		return
	}

	raw, err := json.Marshal(env)
	if err != nil {
		zap.L().Warn("run recording skipped", zap.Error(err))
		return
	}

	run := &model.Run{
		Keywords:  env.Keywords,
		Location:  env.Location,
		Status:    env.Status,
		TotalJobs: env.TotalJobs,
		Envelope:  raw,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		zap.L().Warn("run recording failed", zap.Error(err))
		return
	}
	zap.L().Info("run recorded", zap.String("run_id", run.ID))
}

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeSites, "sites", nil, "boards to search (default from config)")
	scrapeCmd.Flags().BoolVar(&scrapeRecord, "record", false, "persist this run to the history store")
	scrapeCmd.Flags().BoolVar(&scrapeCompact, "compact", false, "emit the envelope without indentation")
	rootCmd.AddCommand(scrapeCmd)
}
