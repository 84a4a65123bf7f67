package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/plantap/internal/adapters/driven/render"
	"github.com/custodia-labs/plantap/internal/adapters/driving/api"
	"github.com/custodia-labs/plantap/internal/adapters/driving/proxy"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
)

var (
	serveListen   string
	serveUpstream string
	serveAPI      string
	serveURLs     bool
	serveRecord   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the capturing proxy",
	Long: `Run a reverse proxy in front of the host application and capture every
drawing list it serves.

Point the browser at the proxy address and open a project's drawings page.
Each captured list is reconciled into the project's catalog and the tree is
printed whenever it changes.

With --api (or api.listen) an admin API is served as well:
  GET  /healthz
  GET  /projects
  GET  /projects/:pid/tree?q=
  GET  /projects/:pid/disciplines
  GET  /projects/:pid/drawings/:num
  GET  /projects/:pid/status
  POST /capture

Examples:
  plantap serve
  plantap serve --listen 127.0.0.1:9000 --api 127.0.0.1:9001`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "proxy listen address (default from proxy.listen)")
	serveCmd.Flags().StringVar(&serveUpstream, "upstream", "", "host application URL (default from proxy.upstream)")
	serveCmd.Flags().StringVar(&serveAPI, "api", "", "admin API listen address (default from api.listen)")
	serveCmd.Flags().BoolVar(&serveURLs, "urls", false, "print drawing links")
	serveCmd.Flags().StringVar(&serveRecord, "record", "", "also append every printed tree, with links, to this file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(overrides{listen: serveListen, upstream: serveUpstream, api: serveAPI})
	if err != nil {
		return err
	}
	if newCapture == nil || captureBus == nil {
		return notConfigured("capture")
	}
	if settings.APIListen != "" && catalogService == nil {
		return notConfigured("catalog")
	}

	var renderer driven.Renderer = render.NewTerminal(cmd.OutOrStdout(), settings.ProxyUpstream, serveURLs)
	if serveRecord != "" {
		f, err := os.OpenFile(serveRecord, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("opening record file: %w", err)
		}
		defer f.Close()
		renderer = render.Multi{renderer, render.NewTerminal(f, settings.ProxyUpstream, true)}
	}
	capture := newCapture(settings, captureBus, renderer)
	dispatcher := newDispatcher(captureBus, settings)

	proxyServer, err := proxy.New(proxy.Options{
		Listen:   settings.ProxyListen,
		Upstream: settings.ProxyUpstream,
		Observer: dispatcher,
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	cmd.Printf("Proxying http://%s -> %s\n", settings.ProxyListen, settings.ProxyUpstream)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return capture.Run(gctx) })
	g.Go(func() error { return proxyServer.Run(gctx) })
	if settings.APIListen != "" {
		apiServer := api.NewServer(settings.APIListen, api.NewHandlers(catalogService, capture, settings.Origin()))
		cmd.Printf("Admin API on http://%s\n", settings.APIListen)
		g.Go(func() error { return apiServer.Run(gctx) })
	}
	runErr := g.Wait()

	dispatcher.Wait()
	if err := drain(capture); err != nil && runErr == nil {
		runErr = fmt.Errorf("drain captures: %w", err)
	}
	return runErr
}
