// Package api exposes the catalog and the capture pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /projects
//	GET  /projects/:pid/tree?q=
//	GET  /projects/:pid/disciplines
//	GET  /projects/:pid/drawings/:num
//	GET  /projects/:pid/status
//	POST /capture
//
// POST /capture only accepts envelopes from the configured origin; it lets a
// thin in-page shim forward captures instead of browsing through the proxy.
package api
