package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/irdump/pkg/errors"
)

// dumpOpts holds the command-line flags for the dump command.
type dumpOpts struct {
	debugFlags
	output   string // base path; one file per format is written as <base>.<format>
	formats  string // comma-separated; empty uses the configured formats
	detailed bool   // node properties in DOT/SVG labels
	noCache  bool
	refresh  bool
}

func (c *CLI) dumpCommand() *cobra.Command {
	var opts dumpOpts

	cmd := &cobra.Command{
		Use:   "dump <graph-file>",
		Short: "Export a graph file as bgv, json, dot or svg",
		Long: `Export a graph file (JSON or TOML) through the graph printer.

Each requested format is written to <output>.<format>. The output base
defaults to the graph file name inside the configured output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDump(cmd, args[0], &opts)
		},
	}

	opts.debugFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): bgv, json, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node properties in dot/svg output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runDump(cmd *cobra.Command, source string, opts *dumpOpts) error {
	ctx := cmd.Context()
	cfg, popts, err := opts.options(cmd, source)
	if err != nil {
		return err
	}
	if opts.formats != "" {
		popts.Formats = parseFormats(opts.formats)
	}
	if cmd.Flags().Changed("detailed") {
		popts.Detailed = opts.detailed
	}
	popts.Refresh = opts.refresh
	if err := popts.ValidateAndSetDefaults(); err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	runner, err := c.newRunner(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, os.Stderr, "Dumping "+filepath.Base(source)+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	prog.done("Dumped " + source)

	base := opts.output
	if base == "" {
		base = filepath.Join(cfg.Output.Dir, strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)))
	}
	paths, err := writeArtifacts(ctx, base, popts.Formats, res.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Exported %s", res.Graph.Name())
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.NodeCount, len(paths), res.CacheInfo.RenderHit)
	if res.DumpID != "" {
		printDetail("dump id %s", res.DumpID)
	}
	return nil
}

// writeArtifacts writes each artifact to base.<format> in format order and
// returns the written paths.
func writeArtifacts(ctx context.Context, base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
		}
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
