// Package commands implements the pgops CLI.
package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/pgops/cli/internal/config"
	"github.com/satishbabariya/pgops/cli/internal/ui"
	"github.com/satishbabariya/pgops/cli/internal/version"
	"github.com/satishbabariya/pgops/internal/debug"
	"github.com/satishbabariya/pgops/runtime/client"
	"github.com/satishbabariya/pgops/telemetry"
)

// app carries state shared by all commands of one invocation.
type app struct {
	cfgFile string
	debug   bool
	dryRun  bool
	metrics bool

	cfg      *config.Config
	registry *prometheus.Registry
}

// Execute runs the CLI.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

// NewRootCommand creates the pgops command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pgops",
		Short: "Insert, update, delete and select rows of PostGIS tables",
		Long: `pgops builds and runs CRUD statements against PostGIS tables.

Geometry columns are given as bare coordinates ("x y,x y") and wrapped into
WKT of the configured kind, optionally reprojected with st_transform.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.printMetrics()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./.pgops.yaml or $HOME/.pgops.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&a.dryRun, "dry-run", false, "print statements without executing them")
	flags.BoolVar(&a.metrics, "metrics", false, "print statement metrics after running")

	root.AddCommand(NewInsertCommand(a))
	root.AddCommand(NewUpdateCommand(a))
	root.AddCommand(NewDeleteCommand(a))
	root.AddCommand(NewSelectCommand(a))
	root.AddCommand(NewColumnsCommand(a))
	root.AddCommand(NewDBCommand(a))
	root.AddCommand(NewConfigCommand(a))
	root.AddCommand(NewCoordsCommand())
	root.AddCommand(NewVersionCommand())

	return root
}

func (a *app) load() error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	debug.Init(a.debug || cfg.Debug)
	if cfg.File != "" {
		debug.Debug("Loaded config", "file", cfg.File)
	}
	return nil
}

func (a *app) options() ([]client.Option, error) {
	recorders := telemetry.Multi{telemetry.NewSlogRecorder(debug.Logger())}
	if a.metrics {
		a.registry = prometheus.NewRegistry()
		rec, err := telemetry.NewPrometheusRecorder(a.registry)
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, rec)
	}
	return []client.Option{client.WithRecorder(recorders)}, nil
}

func (a *app) connect(ctx context.Context) (*client.Client, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	c, err := client.ConnectDSN(ctx, a.cfg.DSN(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return c, nil
}

func (a *app) printMetrics() error {
	if a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			value := m.GetCounter().GetValue()
			if h := m.GetHistogram(); h != nil {
				value = h.GetSampleSum()
			}
			rows = append(rows, []string{mf.GetName(), strings.Join(labels, ","), fmt.Sprintf("%g", value)})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i][0]+rows[i][1] < rows[j][0]+rows[j][1]
	})
	return ui.PrintTable([]string{"metric", "labels", "value"}, rows)
}
