package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/plantap/internal/adapters/driven/render"
	"github.com/custodia-labs/plantap/internal/adapters/driving/watch"
	"github.com/custodia-labs/plantap/internal/logger"
)

var (
	ingestPageURL string
	ingestWatch   string
	ingestSettle  time.Duration
	ingestURLs    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.json...]",
	Short: "Capture saved drawing list responses",
	Long: `Feed saved JSON responses (for example exported from the browser's
network panel) through the same pipeline the proxy uses.

The project is taken from --page-url or, failing that, from each file's path.
With --watch, JSON files already in the directory are ingested and new or
rewritten ones are picked up until interrupted.

Examples:
  plantap ingest drawings.json --page-url https://app.procore.com/companies/3/projects/42/tools/drawings
  plantap ingest --watch ~/Downloads/plantap --page-url https://app.procore.com/companies/3/projects/42/tools/drawings`,
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 && ingestWatch == "" {
			return errors.New("requires at least one file or --watch")
		}
		return nil
	},
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPageURL, "page-url", "", "drawings page URL the responses belong to")
	ingestCmd.Flags().StringVar(&ingestWatch, "watch", "", "directory to watch for new .json files")
	ingestCmd.Flags().DurationVar(&ingestSettle, "settle", watch.DefaultSettle, "quiet period before a changed file is read")
	ingestCmd.Flags().BoolVar(&ingestURLs, "urls", false, "print drawing links")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(overrides{})
	if err != nil {
		return err
	}
	if newCapture == nil {
		return notConfigured("capture")
	}

	renderer := render.NewTerminal(cmd.OutOrStdout(), settings.ProxyUpstream, ingestURLs)
	capture := newCapture(settings, nil, renderer)
	ingester := watch.NewIngester(capture, settings.Origin(), ingestPageURL)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	accepted := 0
	for _, path := range args {
		if err := ingester.IngestFile(ctx, path); err != nil {
			logger.Warn("skipping %s: %v", path, err)
			continue
		}
		accepted++
	}

	var runErr error
	if ingestWatch != "" {
		n, err := ingester.IngestDir(ctx, ingestWatch)
		if err != nil {
			runErr = err
		} else {
			cmd.PrintErrf("Ingested %d files from %s, watching for more\n", n, ingestWatch)
			runErr = watch.NewWatcher(ingestWatch, ingester, ingestSettle).Run(ctx)
		}
	}

	if err := drain(capture); err != nil && runErr == nil {
		runErr = fmt.Errorf("drain captures: %w", err)
	}
	if runErr != nil {
		return runErr
	}
	if len(args) > 0 && accepted == 0 {
		return fmt.Errorf("none of %d files could be ingested", len(args))
	}
	return nil
}
