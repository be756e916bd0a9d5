package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/decross/am"
	"github.com/teranos/decross/cmd/decross/commands"
	"github.com/teranos/decross/errors"
	"github.com/teranos/decross/logger"
)

var rootCmd = &cobra.Command{
	Use:   "decross",
	Short: "decross - cross-color removal for interlaced YUV video",
	Long: `decross - remove cross-color (dot crawl, rainbows) from interlaced video.

Reads a YUV4MPEG2 stream of 8-bit 4:2:0 or 4:2:2 frames, detects sharp
luma transitions, and replaces the chroma next to them with the average of
itself and the best-matching chroma from the previous, current or next frame.

Available commands:
  run     - Filter a YUV4MPEG2 stream
  am      - Manage decross configuration ("I am")
  version - Show version information

Examples:
  ffmpeg -i in.mkv -f yuv4mpegpipe - | decross run | ffmpeg -f yuv4mpegpipe -i - out.mkv
  decross run -i in.y4m -o out.y4m --thresholdy 25 --progress cli
  decross run -i in.y4m -o debug.y4m --debug    # paint flagged chroma
  decross am show --format json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Root().PersistentFlags()
		if err := am.BindFlag("log.verbosity", flags.Lookup("verbose")); err != nil {
			return err
		}
		if err := am.BindFlag("log.json", flags.Lookup("json-log")); err != nil {
			return err
		}

		jsonOutput, verbosity := false, 0
		if cfg, err := am.Load(); err == nil {
			jsonOutput, verbosity = cfg.Log.JSON, cfg.Log.Verbosity
		} else {
			jsonOutput, _ = flags.GetBool("json-log")
			verbosity, _ = flags.GetCount("verbose")
		}
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON")

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
