// Command lasmerge crops and merges LAS tiles per subgrid boundary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/wgdzlh/lasmerge"
	"github.com/wgdzlh/lasmerge/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flags struct {
	config   string
	workDir  string
	pdal     string
	logLevel string
	workers  int
	dev      bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "lasmerge [subgrid...]",
		Short: "Crop and merge LAS tiles for each subgrid boundary",
		Long: `lasmerge locates each subgrid's boundary file, finds the LAS tiles whose
header extent intersects it, crops them with PDAL and merges the pieces into
<work_dir>/<subgrid>/<subgrid>_final.las.

Subgrids given as arguments replace the list in the config file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "lasmerge.yaml", "YAML config file")
	cmd.Flags().StringVar(&f.workDir, "work-dir", "", "local working directory (overrides config)")
	cmd.Flags().StringVar(&f.pdal, "pdal", "", "pdal executable (overrides config)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "parallel crop workers (overrides config)")
	cmd.Flags().BoolVar(&f.dev, "dev", false, "human readable log output")
	return cmd
}

func loadOptions(cmd *cobra.Command, f flags, args []string) (*lasmerge.Options, error) {
	opts, err := lasmerge.LoadOptions(f.config)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("work-dir") {
		opts.WorkDir = f.workDir
	}
	if cmd.Flags().Changed("pdal") {
		opts.PdalBin = f.pdal
	}
	if cmd.Flags().Changed("log-level") {
		opts.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	if f.dev {
		opts.DevLog = true
	}
	if len(args) > 0 {
		opts.Subgrids = args
	}
	if err = opts.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Subgrids) == 0 {
		return nil, fmt.Errorf("no subgrids to process: list them in %s or pass them as arguments", f.config)
	}
	return opts, nil
}

func run(cmd *cobra.Command, f flags, args []string) error {
	opts, err := loadOptions(cmd, f, args)
	if err != nil {
		return err
	}
	if err = log.Init(opts.LogLevel, opts.DevLog); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	console := lasmerge.NewConsole(cmd.OutOrStdout())
	p := lasmerge.NewProcessor(opts, lasmerge.NewGdalToolbox(), lasmerge.LidarioReader{}, lasmerge.NewPdalCli(opts.PdalBin), console)
	rep, err := p.ProcessAll(cmd.Context(), opts.Subgrids)
	console.Report(rep.Errors)
	if err != nil {
		return err
	}
	log.Info("lasmerge:batch finished", zap.String("run", rep.RunId), zap.Int("subgrids", len(rep.Subgrids)), zap.Int("errors", len(rep.Errors)))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
