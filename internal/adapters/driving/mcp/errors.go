// Package mcp provides an MCP (Model Context Protocol) server adapter for plantap.
// It lets AI assistants look up drawings in the locally captured catalogs.
package mcp

import "errors"

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("mcp: catalog service is required")
