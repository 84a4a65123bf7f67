package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/plantap/internal/adapters/driving/proxy"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tui"
	"github.com/custodia-labs/plantap/internal/logger"
)

var (
	tuiPoll  time.Duration
	tuiServe bool
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui <project-id>",
	Short: "Browse a project's drawings interactively",
	Long: `Open a live, filterable tree of a project's drawings.

The catalog is reloaded from storage every --poll interval, so captures from a
running "plantap serve" show up. With --serve the proxy runs inside the TUI
and captured lists appear as soon as they are reconciled.

Controls:
  ↑/k, ↓/j - Move
  g, G     - First / last drawing
  /        - Filter by number or title
  Enter    - Open (records the drawing as recent)
  Esc      - Clear filter
  r        - Reload
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&tuiPoll, "poll", 2*time.Second, "reload interval (0 disables)")
	tuiCmd.Flags().BoolVar(&tuiServe, "serve", false, "run the capturing proxy in the same process")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	settings, err := resolveSettings(overrides{})
	if err != nil {
		return err
	}

	ports := &tui.Ports{
		Catalog: catalogService,
		Recents: recentsService,
	}
	opts := tui.Options{
		ProjectID: args[0],
		LinkBase:  settings.ProxyUpstream,
		Poll:      tuiPoll,
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if tuiServe {
		if newCapture == nil || captureBus == nil {
			return notConfigured("capture")
		}
		feed := tui.NewFeed(tui.DefaultFeedSize)
		capture := newCapture(settings, captureBus, feed)
		dispatcher := newDispatcher(captureBus, settings)
		proxyServer, err := proxy.New(proxy.Options{
			Listen:   settings.ProxyListen,
			Upstream: settings.ProxyUpstream,
			Observer: dispatcher,
		})
		if err != nil {
			return err
		}

		// Log lines would tear the alternate screen.
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)

		go func() {
			if err := capture.Run(ctx); err != nil {
				logger.Warn("capture stopped: %v", err)
			}
		}()
		go func() {
			if err := proxyServer.Run(ctx); err != nil {
				logger.Warn("proxy stopped: %v", err)
			}
		}()
		defer func() {
			stop()
			dispatcher.Wait()
			if err := drain(capture); err != nil {
				fmt.Fprintf(os.Stderr, "drain captures: %v\n", err)
			}
			feed.Close()
		}()

		ports.Capture = capture
		opts.States = feed.States()
	}

	app, err := tui.NewApp(ports, opts)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
