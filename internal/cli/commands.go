package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
	"github.com/Shirsha07/nifty-200-dashboard/internal/notifier"
	"github.com/Shirsha07/nifty-200-dashboard/internal/recorder"
	"github.com/Shirsha07/nifty-200-dashboard/internal/render"
	"github.com/Shirsha07/nifty-200-dashboard/internal/scheduler"
	"github.com/Shirsha07/nifty-200-dashboard/internal/server"
)

// newRunCmd creates the run command: one render pass printed to the terminal.
func newRunCmd(opts *options) *cobra.Command {
	var (
		symbol, period, interval string
		asJSON, interactive      bool
		notify                   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one dashboard pass and print it",
		Long: `Fetch the universe, rank the top gainers and losers, flag strong uptrends and
chart the selected symbol. Example: dashboard run --symbol TCS --period 6mo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			req := a.defaultRequest()
			if symbol != "" {
				req.Symbol = symbol
			}
			if period != "" {
				req.Period = model.Period(period)
			}
			if interval != "" {
				req.Interval = model.Interval(interval)
			}
			if interactive {
				symbols, err := a.pipeline.Universe(ctx)
				if err != nil {
					return err
				}
				if req, err = promptRequest(symbols, req); err != nil {
					return err
				}
			}

			d, err := a.pipeline.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("dashboard pass: %w", err)
			}

			if notify {
				if tn := a.notifier(); tn != nil {
					if err := tn.SendWithRetry(ctx, notifier.FormatDashboard(d), 3); err != nil {
						zap.S().Errorf("send notification: %v", err)
					}
				} else {
					zap.S().Warn("--notify set but telegram is not configured")
				}
			}

			if asJSON {
				return render.JSON(cmd.OutOrStdout(), d, isTerminal(cmd.OutOrStdout()))
			}
			return render.Dashboard(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Symbol to chart (default: dashboard.symbol or the first in the universe)")
	cmd.Flags().StringVarP(&period, "period", "p", "", "Chart timeframe: 1mo, 3mo, 6mo, 1y, 2y, 5y, max")
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "Chart interval: 1d, 1wk, 1mo")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dashboard as JSON")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pick symbol, timeframe and interval interactively")
	cmd.Flags().BoolVar(&notify, "notify", false, "Also send the digest to Telegram")
	return cmd
}

// newServeCmd creates the serve command: HTTP API plus optional scheduled refresh.
func newServeCmd(opts *options) *cobra.Command {
	var refreshOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}

			var rec recorder.Recorder
			if sr, err := recorder.NewSQLiteRecorder(); err != nil {
				zap.S().Warnf("init pass log failed, using noop: %v", err)
				rec = recorder.NewNoopRecorder()
			} else {
				rec = sr
			}
			defer rec.Close()

			var sender scheduler.Sender
			if tn := a.notifier(); tn != nil {
				sender = tn
			}
			sched := scheduler.NewScheduler(ctx, a.pipeline, rec, sender, a.defaultRequest())
			if err := sched.Register(opts.cfg.Schedule.RefreshCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if refreshOnStart {
				go sched.RefreshNow()
			}

			srv := server.New(a.pipeline, rec, a.defaultRequest(), sched.Latest)
			if err := srv.ListenAndServe(ctx, opts.cfg.Server.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refreshOnStart, "refresh-on-start", false, "Run a scheduled refresh immediately")
	return cmd
}

// newSymbolsCmd creates the symbols command.
func newSymbolsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "List the symbol universe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			symbols, err := a.pipeline.Universe(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return render.JSON(cmd.OutOrStdout(), symbols, isTerminal(cmd.OutOrStdout()))
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Symbols(symbols, 6))
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d symbols\n", len(symbols))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return cmd
}

// newHistoryCmd creates the history command, which reads the pass log of a running server.
func newHistoryCmd(opts *options) *cobra.Command {
	var (
		serverURL string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent dashboard passes of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = "http://" + localAddr(opts.cfg.Server.ListenAddr)
			}
			passes, err := fetchHistory(cmd.Context(), serverURL, limit)
			if err != nil {
				return err
			}
			if len(passes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No passes recorded yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.History(passes))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Dashboard server URL (default from server.listen_addr)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of passes to show")
	return cmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nifty-200-dashboard %s\n", Version)
		},
	}
}

func fetchHistory(ctx context.Context, serverURL string, limit int) ([]recorder.PassRecord, error) {
	var body struct {
		Passes []recorder.PassRecord `json:"passes"`
		Error  string                `json:"error"`
	}
	resp, err := resty.New().
		SetTimeout(10*time.Second).
		R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprint(limit)).
		SetResult(&body).
		SetError(&body).
		Get(serverURL + "/api/history")
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", serverURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("query %s: status %d: %s", serverURL, resp.StatusCode(), body.Error)
	}
	return body.Passes, nil
}

// localAddr turns a listen address such as ":8080" into a dialable host:port.
func localAddr(listen string) string {
	if len(listen) > 0 && listen[0] == ':' {
		return "localhost" + listen
	}
	return listen
}

// isTerminal reports whether w is an interactive terminal, for colorized JSON.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
