package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teranos/decross/am"
	"github.com/teranos/decross/decross"
	"github.com/teranos/decross/errors"
	"github.com/teranos/decross/logger"
	"github.com/teranos/decross/pipeline"
	"github.com/teranos/decross/y4m"
)

// RunCmd filters a YUV4MPEG2 stream
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Filter a YUV4MPEG2 stream",
	Long: `Filter a YUV4MPEG2 stream and write the result as YUV4MPEG2.

Input and output default to stdin and stdout ("-"). Logs and progress go to
stderr. The first and last frame are copied unchanged.

Filter flags override the configuration cascade (see 'decross am where').`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

// runFlags maps configuration keys to the run flags that override them
var runFlags = map[string]string{
	"filter.thresholdy":             "thresholdy",
	"filter.noise":                  "noise",
	"filter.margin":                 "margin",
	"filter.debug":                  "debug",
	"filter.kernel":                 "kernel",
	"pipeline.workers":              "workers",
	"pipeline.progress":             "progress",
	"pipeline.progress_interval_ms": "progress-interval",
}

func init() {
	f := RunCmd.Flags()
	f.StringP("input", "i", "-", "Input YUV4MPEG2 file (- for stdin)")
	f.StringP("output", "o", "-", "Output YUV4MPEG2 file (- for stdout)")

	f.Int("thresholdy", decross.DefaultLumaThreshold, "Luma step (0-255) above which a column is treated as an edge")
	f.Int("noise", decross.DefaultNoiseThreshold, "Patch difference (0-255) a substitute must stay below")
	f.Int("margin", decross.DefaultMargin, "Columns (0-4) flagged on each side of an edge")
	f.Bool("debug", false, "Paint flagged chroma (U=128, V=255) instead of correcting it")
	f.String("kernel", decross.KernelPacked.String(), "Patch difference implementation: packed or scalar")

	f.Int("workers", 0, "Frames processed concurrently (0 = size from CPUs and memory)")
	f.String("progress", pipeline.ProgressNone, "Progress output on stderr: cli, json or none")
	f.Int("progress-interval", 500, "Minimum milliseconds between progress updates")
}

func runFilter(cmd *cobra.Command, args []string) error {
	for key, name := range runFlags {
		if err := am.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inPath, _ := cmd.Flags().GetString("input")
	outPath, _ := cmd.Flags().GetString("output")

	in, closeIn, err := openInput(cmd, inPath)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(cmd, outPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, uuid.New().String())
	ctx = logger.WithComponent(ctx, "run")

	log := logger.LoggerFromContext(ctx)
	log.Infow("Filtering stream", logger.FieldInput, inPath, logger.FieldOutput, outPath)

	_, err = filterStream(ctx, cfg, in, out, cmd.ErrOrStderr())
	if cerr := closeOut(); err == nil && cerr != nil {
		err = errors.Wrapf(cerr, "failed to close %s", outPath)
	}
	return err
}

// filterStream reads a y4m stream from in, filters it with the settings of
// cfg and writes the result to out. Progress goes to progress.
func filterStream(ctx context.Context, cfg *am.Config, in io.Reader, out io.Writer, progress io.Writer) (*pipeline.Summary, error) {
	log := logger.LoggerFromContext(ctx)

	reader, err := y4m.NewReader(in)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input header")
	}
	info := reader.Info()
	log.Debugw("Input stream",
		logger.FieldFormat, info.Format.String(),
		logger.FieldWidth, info.Width,
		logger.FieldHeight, info.Height,
		logger.FieldInterlace, info.Interlace)
	if info.Interlace == "p" {
		log.Warnw("Input is flagged progressive; cross-color removal assumes interlaced material")
	}

	params := cfg.Filter.Params()
	log.Debugw("Filter parameters",
		logger.FieldLumaThreshold, params.LumaThreshold,
		logger.FieldNoiseThreshold, params.NoiseThreshold,
		logger.FieldMargin, params.Margin,
		logger.FieldDebug, params.Debug)

	opts := append(cfg.Filter.FilterOptions(), decross.WithLogger(log.Named("decross")))
	filter, err := decross.New(params, info, opts...)
	if err != nil {
		return nil, err
	}

	writer, err := y4m.NewWriter(out, reader.Header())
	if err != nil {
		return nil, errors.Wrap(err, "failed to start output stream")
	}

	emitter, err := pipeline.NewEmitter(cfg.Pipeline.Progress, progress, cfg.Log.Verbosity)
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(filter, pipeline.Options{
		Workers:          cfg.Pipeline.Workers,
		Emitter:          emitter,
		ProgressInterval: cfg.Pipeline.ProgressInterval(),
		Logger:           log.Named("pipeline"),
	})

	summary, err := runner.Run(ctx, reader, writer)
	if err != nil {
		return nil, err
	}
	if err := writer.Flush(); err != nil {
		return nil, err
	}
	return summary, nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" || path == "" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open input %s", path)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "-" || path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create output %s", path)
	}
	return f, f.Close, nil
}
