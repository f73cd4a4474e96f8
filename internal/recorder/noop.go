package recorder

import "github.com/Shirsha07/nifty-200-dashboard/internal/model"

// NoopRecorder is a no-op implementation used for one-shot CLI runs.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPass(_ *model.Dashboard, _ Trigger) error { return nil }
func (n *NoopRecorder) RecentPasses(_ int) ([]PassRecord, error)       { return nil, nil }
func (n *NoopRecorder) Close() error                                   { return nil }
