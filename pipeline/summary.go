package pipeline

import (
	"time"

	"github.com/teranos/decross/decross"
)

// Summary describes a finished run
type Summary struct {
	Frames   int           `json:"frames"`
	Workers  int           `json:"workers"`
	Duration time.Duration `json:"duration"`
	Stats    decross.Stats `json:"stats"`
}

// FPS returns the average throughput in frames per second
func (s *Summary) FPS() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Duration.Seconds()
}

// Fields flattens the summary for progress emitters
func (s *Summary) Fields() map[string]interface{} {
	return map[string]interface{}{
		"frames":           s.Frames,
		"workers":          s.Workers,
		"duration_ms":      s.Duration.Milliseconds(),
		"fps":              s.FPS(),
		"passthrough":      s.Stats.Passthrough,
		"rows_scanned":     s.Stats.RowsScanned,
		"columns_flagged":  s.Stats.ColumnsFlagged,
		"groups_corrected": s.Stats.GroupsCorrected,
		"substitutions":    s.Stats.Substitutions,
		"columns_blended":  s.Stats.ColumnsBlended,
		"columns_painted":  s.Stats.ColumnsPainted,
	}
}
