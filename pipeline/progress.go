package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/time/rate"

	"github.com/teranos/decross/errors"
)

// ProgressEmitter receives progress of a filtering run.
//
// Implementations include:
// - CLIEmitter: pretty-printed terminal output using pterm
// - JSONEmitter: one JSON event per line for machine consumption
// - NopEmitter: discards everything
type ProgressEmitter interface {
	// EmitStage announces the start of a processing stage
	EmitStage(stage string, message string)

	// EmitProgress announces the number of frames written so far
	EmitProgress(count int, metadata map[string]interface{})

	// EmitComplete announces successful completion with summary
	EmitComplete(summary map[string]interface{})

	// EmitError announces an error during processing
	EmitError(stage string, err error)

	// EmitInfo emits general informational message
	EmitInfo(message string)
}

// Progress output modes accepted by NewEmitter
const (
	ProgressCLI  = "cli"
	ProgressJSON = "json"
	ProgressNone = "none"
)

// NewEmitter returns the emitter for mode, writing to w
func NewEmitter(mode string, w io.Writer, verbosity int) (ProgressEmitter, error) {
	switch mode {
	case ProgressCLI:
		return NewCLIEmitter(w, verbosity), nil
	case ProgressJSON:
		return NewJSONEmitter(w), nil
	case ProgressNone, "":
		return NopEmitter{}, nil
	default:
		return nil, errors.WithHint(
			errors.NewInvalidConfigError("unknown progress mode %q", mode),
			"use one of: cli, json, none")
	}
}

// ProgressEvent represents a structured JSON progress event
type ProgressEvent struct {
	Type      string                 `json:"type"`      // "stage", "progress", "complete", "error", "info"
	Timestamp time.Time              `json:"timestamp"` // When this event occurred
	Data      map[string]interface{} `json:"data"`      // Event-specific data
}

// CLIEmitter outputs pretty-printed progress to a terminal using pterm
type CLIEmitter struct {
	out       io.Writer
	verbosity int
}

// NewCLIEmitter creates a CLI progress emitter. Output goes to out, which
// should not be the stream carrying video.
func NewCLIEmitter(out io.Writer, verbosity int) *CLIEmitter {
	return &CLIEmitter{out: out, verbosity: verbosity}
}

// EmitStage prints a stage announcement
func (e *CLIEmitter) EmitStage(stage string, message string) {
	pterm.Fprintln(e.out, fmt.Sprintf("🔄 %s: %s", pterm.LightCyan(stage), message))
}

// EmitProgress prints the frame count
func (e *CLIEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	line := fmt.Sprintf("✅ Processed %s frames", pterm.Green(fmt.Sprintf("%d", count)))
	if fps, ok := metadata["fps"].(float64); ok {
		line += pterm.Gray(fmt.Sprintf(" (%.1f fps)", fps))
	}
	pterm.Fprintln(e.out, line)
}

// EmitComplete prints the completion summary
func (e *CLIEmitter) EmitComplete(summary map[string]interface{}) {
	pterm.Fprintln(e.out, pterm.Success.Sprint("Processing complete!"))
	if e.verbosity >= 1 {
		keys := make([]string, 0, len(summary))
		for key := range summary {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			pterm.Fprintln(e.out, fmt.Sprintf("  %s: %v", key, summary[key]))
		}
	}
}

// EmitError prints an error
func (e *CLIEmitter) EmitError(stage string, err error) {
	pterm.Fprintln(e.out, pterm.Error.Sprintf("Error in %s: %v", stage, err))
}

// EmitInfo prints informational message
func (e *CLIEmitter) EmitInfo(message string) {
	if e.verbosity >= 1 {
		pterm.Fprintln(e.out, pterm.Info.Sprint(message))
	}
}

// JSONEmitter writes one JSON event per line
type JSONEmitter struct {
	encoder *json.Encoder
}

// NewJSONEmitter creates a JSON progress emitter writing to w
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{encoder: json.NewEncoder(w)}
}

func (e *JSONEmitter) emit(kind string, data map[string]interface{}) {
	e.encoder.Encode(ProgressEvent{
		Type:      kind,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// EmitStage emits a stage event as JSON
func (e *JSONEmitter) EmitStage(stage string, message string) {
	e.emit("stage", map[string]interface{}{
		"stage":   stage,
		"message": message,
	})
}

// EmitProgress emits a progress event as JSON
func (e *JSONEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	data := map[string]interface{}{
		"count": count,
	}
	for k, v := range metadata {
		data[k] = v
	}
	e.emit("progress", data)
}

// EmitComplete emits a completion event as JSON
func (e *JSONEmitter) EmitComplete(summary map[string]interface{}) {
	e.emit("complete", summary)
}

// EmitError emits an error event as JSON
func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]interface{}{
		"stage": stage,
		"error": strings.TrimSpace(err.Error()),
	})
}

// EmitInfo emits an info event as JSON
func (e *JSONEmitter) EmitInfo(message string) {
	e.emit("info", map[string]interface{}{
		"message": message,
	})
}

// NopEmitter discards all events
type NopEmitter struct{}

func (NopEmitter) EmitStage(string, string)                 {}
func (NopEmitter) EmitProgress(int, map[string]interface{}) {}
func (NopEmitter) EmitComplete(map[string]interface{})      {}
func (NopEmitter) EmitError(string, error)                  {}
func (NopEmitter) EmitInfo(string)                          {}

// throttled forwards at most one progress event per interval. All other
// events pass straight through.
type throttled struct {
	ProgressEmitter
	limiter *rate.Limiter
}

// Throttle wraps e so that EmitProgress fires at most once per interval.
// A non-positive interval returns e unchanged.
func Throttle(e ProgressEmitter, interval time.Duration) ProgressEmitter {
	if interval <= 0 {
		return e
	}
	return &throttled{
		ProgressEmitter: e,
		limiter:         rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (t *throttled) EmitProgress(count int, metadata map[string]interface{}) {
	if t.limiter.Allow() {
		t.ProgressEmitter.EmitProgress(count, metadata)
	}
}
