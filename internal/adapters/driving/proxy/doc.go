// Package proxy serves a local reverse proxy in front of the catalog host.
// Every response flows through the tap middleware, so browsing the host via
// the proxy is enough to fill the local catalog.
package proxy
