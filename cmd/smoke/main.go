// Command smoke replays scripted user journeys against a running server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/skillfolio/internal/smoke"
	"github.com/okian/skillfolio/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: stop already called
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr        string
		scenarios   []string
		timeout     time.Duration
		pollTimeout time.Duration
		logLevel    string
	)

	root := &cobra.Command{
		Use:          "smoke",
		Short:        "Replay user journeys against a skillfolio server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := logger.SetLevelString(logLevel); err != nil {
				return err
			}
			client := smoke.NewClient(addr,
				smoke.WithHTTPClient(&http.Client{Timeout: timeout}),
				smoke.WithPoll(0, pollTimeout),
				smoke.WithLogger(logger.Named("smoke")),
			)
			results, err := smoke.Run(cmd.Context(), client, scenarios...)
			if err != nil {
				return err
			}
			return report(cmd, results)
		},
	}
	root.Flags().StringVar(&addr, "addr", "http://localhost:9080", "server base URL")
	root.Flags().StringSliceVar(&scenarios, "scenario", nil, "scenarios to run (default all)")
	root.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	root.Flags().DurationVar(&pollTimeout, "poll-timeout", 5*time.Second, "how long to wait for evidence to apply")
	root.Flags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, sc := range smoke.Scenarios() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", sc.Name, sc.Description)
			}
		},
	})
	return root
}

// report prints one line per scenario and fails when any scenario failed.
func report(cmd *cobra.Command, results []smoke.Result) error {
	failed := 0
	for _, r := range results {
		status := "PASS"
		if !r.Passed() {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-16s %s", status, r.Name, r.Duration.Round(time.Millisecond))
		if r.Err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  %v", r.Err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}
