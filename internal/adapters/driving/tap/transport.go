package tap

import (
	"io"
	"net/http"
	"sync"

	"github.com/custodia-labs/plantap/internal/logger"
)

// Transport decorates an http.RoundTripper. Relevant responses get a body that
// copies bytes as the caller reads them; the response is otherwise returned
// exactly as the base transport produced it.
type Transport struct {
	// Base performs the request. Nil means http.DefaultTransport.
	Base http.RoundTripper

	// Observer receives complete bodies.
	Observer Observer
}

// NewClient returns an http.Client whose transport is tapped.
func NewClient(base http.RoundTripper, observer Observer) *http.Client {
	return &http.Client{Transport: &Transport{Base: base, Observer: observer}}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil || t.Observer == nil {
		return resp, err
	}
	t.attach(req, resp)
	return resp, nil
}

// attach wraps the body when the observer wants it. A panic here leaves the
// response untouched.
func (t *Transport) attach(req *http.Request, resp *http.Response) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("tap: recovered while attaching to %s: %v", req.URL, r)
		}
	}()

	rawURL := req.URL.String()
	if !t.Observer.Wants(rawURL, resp.Header) {
		return
	}
	header := resp.Header.Clone()
	pageURL := req.Referer()
	observer := t.Observer

	resp.Body = newTeeBody(resp.Body, observer.MaxBodyBytes(), func(body []byte) {
		observer.Observe(Observation{URL: rawURL, PageURL: pageURL, Header: header, Body: body})
	})
}

// teeBody copies what the caller reads, up to a limit, and reports the copy
// once at EOF or Close. Over the limit the copy is dropped and nothing is
// reported.
type teeBody struct {
	rc       io.ReadCloser
	limit    int64
	buf      []byte
	overflow bool
	report   func([]byte)
	once     sync.Once
}

func newTeeBody(rc io.ReadCloser, limit int64, report func([]byte)) *teeBody {
	return &teeBody{rc: rc, limit: limit, report: report}
}

// Read passes through the underlying read and copies the bytes read.
func (b *teeBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	if n > 0 {
		b.copy(p[:n])
	}
	if err == io.EOF {
		b.finish()
	}
	return n, err
}

// Close closes the underlying body and reports what was read.
func (b *teeBody) Close() error {
	err := b.rc.Close()
	b.finish()
	return err
}

func (b *teeBody) copy(p []byte) {
	if b.overflow {
		return
	}
	if int64(len(b.buf)+len(p)) > b.limit {
		b.overflow = true
		b.buf = nil
		return
	}
	b.buf = append(b.buf, p...)
}

func (b *teeBody) finish() {
	b.once.Do(func() {
		if b.overflow || len(b.buf) == 0 {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("tap: recovered in observer: %v", r)
			}
		}()
		b.report(b.buf)
	})
}
