package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/plantap/internal/adapters/driving/tap"
	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
	"github.com/custodia-labs/plantap/internal/logger"
)

// drainTimeout bounds the final flush when a command exits.
const drainTimeout = 10 * time.Second

// overrides are command-line values that replace configured settings.
type overrides struct {
	listen   string
	upstream string
	api      string
}

// resolveSettings returns the configured settings with overrides applied.
func resolveSettings(o overrides) (domain.Settings, error) {
	if settingsService == nil {
		return domain.Settings{}, notConfigured("settings")
	}
	s := settingsService.Get()
	if o.listen != "" {
		s.ProxyListen = o.listen
	}
	if o.upstream != "" {
		s.ProxyUpstream = o.upstream
	}
	if o.api != "" {
		s.APIListen = o.api
	}
	return s, nil
}

// newDispatcher builds the tap dispatcher for settings.
func newDispatcher(bus driven.CaptureBus, s domain.Settings) *tap.Dispatcher {
	return tap.NewDispatcher(bus, tap.DispatcherOptions{
		RelevantHost:    s.RelevantHost,
		Origin:          s.Origin(),
		MaxBodyBytes:    s.MaxBodyBytes,
		ParsesPerSecond: s.ParsesPerSecond,
	})
}

// drain flushes and closes a capture service with a bounded wait.
func drain(capture driving.CaptureService) error {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	logger.Debug("draining capture buffers")
	return capture.Close(ctx)
}
