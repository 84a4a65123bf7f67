// Package watch feeds saved response bodies into the capture pipeline,
// either once or by watching a directory for new files.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
	"github.com/custodia-labs/plantap/internal/logger"
)

// Ingester turns JSON files into capture envelopes.
type Ingester struct {
	capture driving.CaptureService
	origin  string
	pageURL string
}

// NewIngester creates an ingester. pageURL attributes every file to a
// project; when empty, the file path itself is parsed for a project context.
func NewIngester(capture driving.CaptureService, origin, pageURL string) *Ingester {
	return &Ingester{capture: capture, origin: origin, pageURL: pageURL}
}

// IngestFile reads one saved response and hands it to the capture service.
func (i *Ingester) IngestFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	payload, err := domain.ParsePayload(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	source := i.pageURL
	if source == "" {
		source = filepath.ToSlash(path)
	}
	env := domain.NewCaptureEnvelope(i.origin, payload, domain.ParseProjectContext(source), "file://"+filepath.ToSlash(path))
	if err := i.capture.Accept(ctx, env); err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}
	logger.Debug("watch: ingested %s", path)
	return nil
}

// IngestDir ingests every JSON file directly inside dir, in name order.
// It returns the number of files accepted; failures are logged and skipped.
func (i *Ingester) IngestDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isCandidate(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	accepted := 0
	for _, name := range names {
		if err := i.IngestFile(ctx, filepath.Join(dir, name)); err != nil {
			logger.Warn("%v", err)
			continue
		}
		accepted++
	}
	return accepted, nil
}

// isCandidate reports whether a file name looks like a saved response.
func isCandidate(name string) bool {
	base := filepath.Base(name)
	return !strings.HasPrefix(base, ".") && strings.EqualFold(filepath.Ext(base), ".json")
}
