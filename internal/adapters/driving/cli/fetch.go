package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/plantap/internal/adapters/driven/bus"
	"github.com/custodia-labs/plantap/internal/adapters/driven/render"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tap"
	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
)

var (
	fetchReferer string
	fetchHeaders []string
	fetchURLs    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a drawing list and capture it",
	Long: `Fetch a URL through the capturing HTTP client and reconcile whatever
drawing list it returns into the project's catalog.

The project is taken from --referer (the drawings page the request belongs
to) or, failing that, from the URL itself.

Examples:
  plantap fetch https://app.procore.com/rest/v1.0/projects/42/drawings \
    --referer https://app.procore.com/companies/3/projects/42/tools/drawings/areas/9 \
    -H "Cookie: session=..."`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchReferer, "referer", "", "drawings page URL the request belongs to")
	fetchCmd.Flags().StringArrayVarP(&fetchHeaders, "header", "H", nil, `extra request header ("Name: value")`)
	fetchCmd.Flags().BoolVar(&fetchURLs, "urls", false, "print drawing links")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(overrides{})
	if err != nil {
		return err
	}
	if newCapture == nil {
		return notConfigured("capture")
	}

	renderer := render.NewTerminal(cmd.OutOrStdout(), settings.ProxyUpstream, fetchURLs)
	var capture driving.CaptureService
	direct := bus.Direct(func(ctx context.Context, env domain.CaptureEnvelope) error {
		return capture.Accept(ctx, env)
	})
	capture = newCapture(settings, nil, renderer)
	dispatcher := newDispatcher(direct, settings)

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, args[0], nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	req.Header.Set("Accept", "application/json")
	if fetchReferer != "" {
		req.Header.Set("Referer", fetchReferer)
	}
	for _, h := range fetchHeaders {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("%w: header %q is not \"Name: value\"", domain.ErrInvalidInput, h)
		}
		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	resp, err := tap.NewClient(nil, dispatcher).Do(req)
	if err != nil {
		_ = drain(capture)
		return fmt.Errorf("fetch %s: %w", args[0], err)
	}
	n, copyErr := io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	cmd.PrintErrf("%s %s (%d bytes)\n", resp.Status, args[0], n)

	dispatcher.Wait()
	if err := drain(capture); err != nil {
		return fmt.Errorf("drain captures: %w", err)
	}
	if copyErr != nil {
		return fmt.Errorf("read %s: %w", args[0], copyErr)
	}
	return nil
}
