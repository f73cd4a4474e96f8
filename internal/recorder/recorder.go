package recorder

import (
	"time"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// Trigger names what started a render pass.
type Trigger string

const (
	TriggerCLI       Trigger = "cli"
	TriggerHTTP      Trigger = "http"
	TriggerScheduled Trigger = "scheduled"
)

// PassRecord is one row of the render-pass log.
type PassRecord struct {
	RunID        string        `json:"run_id"`
	Trigger      Trigger       `json:"trigger"`
	Timestamp    time.Time     `json:"timestamp"`
	Elapsed      string        `json:"elapsed"`
	UniverseSize int           `json:"universe_size"`
	Failed       int           `json:"failed"`
	Insufficient bool          `json:"insufficient"`
	Trending     int           `json:"trending"`
	Selected     string        `json:"selected,omitempty"`
	Movers       []MoverRecord `json:"movers,omitempty"`
}

// MoverRecord is one ranked mover of a recorded pass.
type MoverRecord struct {
	Side          string  `json:"side"` // "gainer" or "loser"
	Rank          int     `json:"rank"`
	Symbol        string  `json:"symbol"`
	PercentChange float64 `json:"percent_change"`
}

// Recorder keeps a log of render passes for the lifetime of the process.
type Recorder interface {
	RecordPass(d *model.Dashboard, trigger Trigger) error
	RecentPasses(limit int) ([]PassRecord, error)
	Close() error
}
