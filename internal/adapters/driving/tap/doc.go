// Package tap observes HTTP responses on their way to the host client and
// publishes the relevant ones as capture envelopes.
//
// Two primitives are provided: Transport decorates an http.RoundTripper for
// outbound clients, and Middleware decorates an http.Handler (the reverse
// proxy). Both copy bytes as the caller consumes them and hand the copy to an
// Observer once the body is complete. Neither alters status, headers, body or
// timing of what the host receives.
package tap
