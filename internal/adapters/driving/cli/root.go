// Package cli provides the plantap command line interface.
// It is a driving adapter: commands call core services through driving ports
// injected by main with SetServices.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
	"github.com/custodia-labs/plantap/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var verbose bool

// CaptureFactory builds a capture service for settings that renders to
// renderer and consumes bus. A nil bus yields a service fed only through Accept.
type CaptureFactory func(settings domain.Settings, bus driven.CaptureBus, renderer driven.Renderer) driving.CaptureService

// Services are the core services the commands drive.
type Services struct {
	Settings    driving.SettingsService
	Catalog     driving.CatalogService
	Favorites   driving.FavoritesService
	Recents     driving.RecentsService
	Preferences driving.PreferencesService

	// Bus carries captures from the tap to the core in long-running commands.
	Bus driven.CaptureBus

	// NewCapture builds capture services per command.
	NewCapture CaptureFactory
}

var (
	settingsService    driving.SettingsService
	catalogService     driving.CatalogService
	favoritesService   driving.FavoritesService
	recentsService     driving.RecentsService
	preferencesService driving.PreferencesService
	captureBus         driven.CaptureBus
	newCapture         CaptureFactory
)

// errNotConfigured is wrapped by commands whose service is missing.
var errNotConfigured = errors.New("not configured")

var rootCmd = &cobra.Command{
	Use:   "plantap",
	Short: "Capture and browse drawing catalogs",
	Long: `plantap watches the drawing lists a construction-management web app
already loads, reconciles them into a per-project catalog and shows it as a
tree grouped by discipline.

Run "plantap serve" and browse through the proxy, or feed saved responses
with "plantap ingest". Then read the catalog with "plantap tree", "plantap tui"
or the MCP server.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the core services.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	catalogService = s.Catalog
	favoritesService = s.Favorites
	recentsService = s.Recents
	preferencesService = s.Preferences
	captureBus = s.Bus
	newCapture = s.NewCapture
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func notConfigured(what string) error {
	return fmt.Errorf("%s service %w", what, errNotConfigured)
}
