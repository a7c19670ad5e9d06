// Command digest emails each business its top matched grants and approaching
// deadlines through SES.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"auctus-engine/internal/bootstrap"
	"auctus-engine/internal/config"
	"auctus-engine/internal/services/discovery"
	"auctus-engine/internal/services/engine"
	"auctus-engine/internal/services/ses"
	"auctus-engine/internal/utils"
)

type options struct {
	businessID string
	minScore   int
	limit      int
	days       int
	dryRun     bool
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:          "digest",
		Short:        "Send grant digest emails to catalog businesses",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := utils.InitLoggerWithOptions(utils.LoggerOptions{Level: cfg.LogLevel, JSON: cfg.IsProduction()}); err != nil {
				return err
			}
			defer utils.Sync()

			eng, err := bootstrap.NewEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			digests, err := buildDigests(eng, cfg.DashboardURL, opts)
			if err != nil {
				return err
			}

			if opts.dryRun {
				printDigests(cmd.OutOrStdout(), digests)
				return nil
			}

			if cfg.SESSenderEmail == "" {
				return errors.New("SES_SENDER_EMAIL is required unless --dry-run is set")
			}
			svc, err := ses.NewService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return send(cmd.Context(), svc, digests)
		},
	}

	cmd.Flags().StringVarP(&opts.businessID, "business", "b", "", "only this business id")
	cmd.Flags().IntVar(&opts.minScore, "min-score", discovery.HighMatchThreshold, "grants must score above this percentage")
	cmd.Flags().IntVar(&opts.limit, "limit", 3, "grants per digest, 0 for all")
	cmd.Flags().IntVar(&opts.days, "days", discovery.ApproachingDays, "deadline window in days")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the digests instead of sending them")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildDigests returns one digest per business with at least one qualifying grant.
func buildDigests(eng *engine.Engine, dashboardURL string, opts options) ([]ses.DigestParams, error) {
	businesses := eng.Catalog().Businesses()
	if opts.businessID != "" {
		b := eng.Business(opts.businessID)
		if b == nil {
			return nil, fmt.Errorf("business %q not found", opts.businessID)
		}
		businesses = businesses[:0:0]
		businesses = append(businesses, *b)
	}

	deadlines := eng.UpcomingDeadlines(opts.days)
	digests := make([]ses.DigestParams, 0, len(businesses))
	for i := range businesses {
		b := &businesses[i]
		params := ses.BuildDigestParams(b, eng.MatchedGrants(b.ID), deadlines, dashboardURL, opts.minScore, opts.limit)
		if len(params.TopGrants) == 0 {
			continue
		}
		digests = append(digests, params)
	}
	return digests, nil
}

func send(ctx context.Context, svc *ses.Service, digests []ses.DigestParams) error {
	logger := utils.Component("digest").With(utils.String("batch_id", uuid.NewString()))

	results, errs := svc.SendDigests(ctx, digests)
	for _, err := range errs {
		if errors.Is(err, ses.ErrNoRecipient) {
			logger.Warn("Skipped digest", utils.Error(err))
			continue
		}
		logger.Error("Digest failed", utils.Error(err))
	}
	logger.Info("Digest run complete",
		utils.Int("sent", len(results)),
		utils.Int("failed", len(errs)),
	)

	for _, err := range errs {
		if !errors.Is(err, ses.ErrNoRecipient) {
			return fmt.Errorf("%d of %d digests failed", len(errs), len(digests))
		}
	}
	return nil
}

func printDigests(w io.Writer, digests []ses.DigestParams) {
	for _, d := range digests {
		to := d.Email
		if to == "" {
			to = "(no email)"
		}
		fmt.Fprintf(w, "To: %s\nSubject: %s\n\n%s\n\n", to, ses.DigestSubject(d), ses.RenderDigestText(d))
	}
	fmt.Fprintf(w, "%d digest(s)\n", len(digests))
}
