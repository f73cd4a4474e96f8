package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Shirsha07/nifty-200-dashboard/internal/dashboard"
	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
	"github.com/Shirsha07/nifty-200-dashboard/internal/recorder"
)

type stubRunner struct {
	err  error
	reqs []dashboard.Request
}

func (r *stubRunner) Run(_ context.Context, req dashboard.Request) (*model.Dashboard, error) {
	r.reqs = append(r.reqs, req)
	if r.err != nil {
		return nil, r.err
	}
	return &model.Dashboard{RunID: "run-1", UniverseSize: 2, Trending: []string{"TCS"}}, nil
}

type captureSender struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureSender) SendWithRetry(_ context.Context, text string, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return nil
}

func newRecorder(t *testing.T) *recorder.SQLiteRecorder {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder()
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })
	return rec
}

func TestRefreshNow_RecordsAndNotifies(t *testing.T) {
	runner := &stubRunner{}
	sender := &captureSender{}
	rec := newRecorder(t)
	req := dashboard.Request{Symbol: "TCS", Period: model.Period1y, Interval: model.Interval1d}

	s := NewScheduler(context.Background(), runner, rec, sender, req)
	s.RefreshNow()

	if len(runner.reqs) != 1 || runner.reqs[0] != req {
		t.Errorf("expected the configured request, got %+v", runner.reqs)
	}
	if s.Latest() == nil || s.Latest().RunID != "run-1" {
		t.Errorf("expected latest dashboard to be kept, got %+v", s.Latest())
	}
	passes, err := rec.RecentPasses(5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(passes) != 1 || passes[0].Trigger != recorder.TriggerScheduled {
		t.Errorf("expected one scheduled pass, got %+v", passes)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "Strong uptrends") {
		t.Errorf("expected a digest, got %v", sender.sent)
	}
}

func TestRefreshNow_Failure(t *testing.T) {
	runner := &stubRunner{err: errors.New("universe down")}
	sender := &captureSender{}
	s := NewScheduler(context.Background(), runner, recorder.NewNoopRecorder(), sender, dashboard.Request{})

	s.RefreshNow()

	if s.Latest() != nil {
		t.Error("failed refresh should not replace the latest dashboard")
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "universe down") {
		t.Errorf("expected failure notice, got %v", sender.sent)
	}
}

func TestRefreshNow_NoNotifier(t *testing.T) {
	s := NewScheduler(context.Background(), &stubRunner{}, recorder.NewNoopRecorder(), nil, dashboard.Request{})
	s.RefreshNow()
	if s.Latest() == nil {
		t.Error("expected a dashboard without a notifier")
	}
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), &stubRunner{}, recorder.NewNoopRecorder(), nil, dashboard.Request{})

	if err := s.Register(""); err != nil {
		t.Errorf("empty schedule should be accepted: %v", err)
	}
	if len(s.Cron.Entries()) != 0 {
		t.Error("empty schedule should register nothing")
	}
	if err := s.Register("0 */15 9-15 * * 1-5"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("expected 1 entry, got %d", len(s.Cron.Entries()))
	}
	if err := s.Register("every now and then"); err == nil {
		t.Error("expected error for invalid expression")
	}
}
