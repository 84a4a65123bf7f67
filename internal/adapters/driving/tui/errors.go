package tui

import "errors"

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("tui: catalog service is required")

// ErrMissingProject is returned when no project id is given.
var ErrMissingProject = errors.New("tui: project id is required")
