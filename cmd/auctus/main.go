// Command auctus is a terminal front end for the recommendation engine.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"auctus-engine/internal/bootstrap"
	"auctus-engine/internal/config"
	"auctus-engine/internal/services/engine"
	"auctus-engine/internal/utils"
)

// app carries the state shared by every subcommand once the root has run.
type app struct {
	cfg    *config.Config
	engine *engine.Engine

	source   string
	dir      string
	logLevel string
	jsonOut  bool

	// engineOpts are appended when the engine is built. Tests use it to pin the clock.
	engineOpts []engine.Option
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "auctus",
		Short: "Grant, partner and assistant recommendations for Auctus businesses",
		Long: `auctus queries the recommendation engine from the terminal.

The catalog is loaded from CATALOG_SOURCE (embedded, dir, s3 or postgres)
unless --source overrides it.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { utils.Sync() },
	}

	root.PersistentFlags().StringVar(&a.source, "source", "", "catalog source override (embedded, dir, s3, postgres)")
	root.PersistentFlags().StringVar(&a.dir, "dir", "", "catalog directory when --source=dir")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newGrantsCmd(a),
		newGrantCmd(a),
		newUpcomingCmd(a),
		newMatchesCmd(a),
		newAskCmd(a),
		newDashboardCmd(a),
		newForumCmd(a),
		newJobsCmd(a),
		newTalentsCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.source != "" {
		cfg.CatalogSource = strings.ToLower(a.source)
	}
	if a.dir != "" {
		cfg.CatalogDir = a.dir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := utils.InitLogger(a.logLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	eng, err := bootstrap.NewEngine(cmd.Context(), cfg, a.engineOpts...)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.engine = eng
	return nil
}

// requireBusiness fails when the id does not resolve in the catalog.
func (a *app) requireBusiness(id string) error {
	if id == "" {
		return fmt.Errorf("--business is required")
	}
	if a.engine.Business(id) == nil {
		return fmt.Errorf("business %q not found", id)
	}
	return nil
}

// render prints v as JSON when --json is set, otherwise calls table.
func (a *app) render(out io.Writer, v interface{}, fill func(t table.Writer)) error {
	if a.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	fill(t)
	t.Render()
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
