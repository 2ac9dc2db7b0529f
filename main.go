package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
	"github.com/spf13/cobra"

	"github.com/seqsense/pcdannotator/segment"
)

type rootFlags struct {
	config         string
	segments       string
	logLevel       string
	k              int
	angleTolerance float32
	bandHalfWidth  float32
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "pcdannotator",
		Short:         "Annotate planar surfaces of point clouds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "YAML config file")
	pf.StringVar(&f.segments, "segments", "", "segments JSON file (overrides config)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (overrides config)")
	pf.IntVar(&f.k, "k", 0, "neighbors per floodfill step (overrides config)")
	pf.Float32Var(&f.angleTolerance, "angle-tolerance", -1, "max normal angle in radians (overrides config)")
	pf.Float32Var(&f.bandHalfWidth, "band-half-width", -1, "excluded distance from the bounding line (overrides config)")

	root.AddCommand(
		newAnnotateCmd(f),
		newFillCmd(f),
		newSegmentsCmd(f),
		newHighlightCmd(f),
		newDeleteCmd(f),
	)
	return root
}

// session builds a command context from the config file and flags.
func (f *rootFlags) session(cmd *cobra.Command) (*commandContext, func(), error) {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return nil, nil, err
	}
	if f.segments != "" {
		cfg.SegmentsFile = f.segments
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("k") {
		cfg.Floodfill.K = f.k
	}
	if cmd.Flags().Changed("angle-tolerance") {
		cfg.Floodfill.AngleTolerance = f.angleTolerance
	}
	if cmd.Flags().Changed("band-half-width") {
		cfg.Floodfill.BandHalfWidth = f.bandHalfWidth
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	c, err := newCommandContext(cfg, fileIO{}, segment.NewStore(cfg.SegmentsFile), logger)
	if err != nil {
		return nil, nil, err
	}
	if err := c.ReloadSegments(); err != nil {
		return nil, nil, err
	}
	return c, func() { _ = logger.Sync() }, nil
}

func newAnnotateCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "annotate [cloud]",
		Short: "Start the interactive console",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := f.session(cmd)
			if err != nil {
				return err
			}
			defer done()
			ctx := cmd.Context()
			if len(args) == 1 {
				if err := c.Load(ctx, args[0]); err != nil {
					return err
				}
			}

			go func() {
				err := segment.Watch(ctx, c.store.Path(), watchDebounce, func() {
					if err := c.ReloadSegments(); err != nil {
						c.logger.Warnw("failed to reload segments", "error", err)
						return
					}
					c.logger.Debugw("segments reloaded", "path", c.store.Path())
				})
				if err != nil {
					c.logger.Warnw("segments watcher stopped", "error", err)
				}
			}()

			return runConsole(ctx, &console{cmd: c}, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newFillCmd(f *rootFlags) *cobra.Command {
	var (
		picks   []int
		pickPos []string
		out     string
		rest    string
		save    string
		class   string
	)
	cmd := &cobra.Command{
		Use:   "fill <cloud>",
		Short: "Run floodfill once and optionally save the segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := f.session(cmd)
			if err != nil {
				return err
			}
			defer done()
			if err := c.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			for _, i := range picks {
				if err := c.PickIndex(i); err != nil {
					return err
				}
			}
			for _, s := range pickPos {
				v, err := parseFloats(strings.Split(s, ","))
				if err != nil {
					return err
				}
				if len(v) != 3 {
					return errors.Errorf("pick position must be x,y,z: %q", s)
				}
				if _, err := c.Pick(mat.Vec3{v[0], v[1], v[2]}); err != nil {
					return err
				}
			}
			res, err := c.Floodfill()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d points\n", len(res))
			if out != "" {
				if err := c.ExportResult(out); err != nil {
					return err
				}
			}
			if rest != "" {
				if err := c.ExportRest(rest); err != nil {
					return err
				}
			}
			if save != "" {
				label, err := segment.ParseClassLabel(class)
				if err != nil {
					return err
				}
				seg, err := c.Save(save, label)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved segment %d\n", seg.ID)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntSliceVar(&picks, "pick", nil, "picked point indices: line start, line end, seed")
	fl.StringArrayVar(&pickPos, "pick-pos", nil, "picked position x,y,z (repeat 3 times)")
	fl.StringVar(&out, "out", "", "write the result cloud to this PCD file")
	fl.StringVar(&rest, "out-rest", "", "write the cloud without the result to this PCD file")
	fl.StringVar(&save, "save", "", "save the result as a segment with this name")
	fl.StringVar(&class, "class", string(segment.Wall), "segment class: Wall, Floor or Ceiling")
	return cmd
}

func newSegmentsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "segments",
		Short: "List saved segments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := f.session(cmd)
			if err != nil {
				return err
			}
			defer done()
			fmt.Fprintln(cmd.OutOrStdout(), renderSegments(c.Segments()))
			return nil
		},
	}
}

func newHighlightCmd(f *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "highlight <id>",
		Short: "Write the source cloud of a segment with the segment highlighted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.WithStack(err)
			}
			c, done, err := f.session(cmd)
			if err != nil {
				return err
			}
			defer done()
			pp, err := c.Highlight(id)
			if err != nil {
				return err
			}
			return c.cloudIO.exportCloud(out, pp)
		},
	}
	cmd.Flags().StringVar(&out, "out", "highlight.pcd", "output PCD file")
	return cmd
}

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.WithStack(err)
			}
			c, done, err := f.session(cmd)
			if err != nil {
				return err
			}
			defer done()
			return c.DeleteSegment(id)
		},
	}
}
