// Package fetch defines the transport used to issue diagnostic requests,
// along with an HTTP implementation of it.
package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sort"
	"strings"
)

// Header is one request or response header field.
// Headers are kept as an ordered sequence, not a map, since the order in
// which probe headers are sent can matter to the server under test.
type Header struct {
	Name  string
	Value string
}

// Result is the outcome of one issued request.
// It is delivered exactly once per Fetch call.
type Result struct {
	StatusCode int
	Headers    []Header
	// Body is a sample of the response body, capped at the transport's
	// sample limit.
	Body []byte
	// SHA256 is the hex-encoded hash of the complete body, regardless of
	// how much of it was sampled. Body equality between two exchanges is
	// decided by comparing hashes, never by comparing full bodies.
	SHA256 string
	// Complete reports whether the whole body was received.
	Complete bool
	// Err is the transport error, if the exchange failed.
	Err error
}

// Header returns the first value of the named header, case-insensitively.
func (r Result) Header(name string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// HasHeader reports whether the named header is present at all.
func (r Result) HasHeader(name string) bool {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}

// Transport issues one HTTP exchange.
// Implementations must deliver exactly one Result per call, must honor
// cancellation of ctx, and must report timeouts and connection errors
// through Result.Err rather than panicking. Retries, connection pooling
// and TLS negotiation are the transport's concern.
type Transport interface {
	Fetch(ctx context.Context, method, uri string, headers []Header) Result
}

// DefaultSampleLimit is how much of a response body is retained by Client.
const DefaultSampleLimit = 512 * 1024

// Client is the HTTP implementation of Transport.
type Client struct {
	// HTTP is the underlying client. NewClient configures it to not follow
	// redirects and to leave content codings untouched.
	HTTP *http.Client
	// SampleLimit caps the retained body sample.
	// DefaultSampleLimit is used if zero.
	SampleLimit int
}

// NewClient returns a Client suitable for diagnostic requests: redirects
// are returned as-is and responses are never transparently decompressed,
// so that what the server sent is what gets classified.
func NewClient() *Client {
	return &Client{
		HTTP: &http.Client{
			Transport: &http.Transport{
				DisableCompression: true,
			},
			// do not follow redirects
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Fetch implements Transport.
func (c *Client) Fetch(ctx context.Context, method, uri string, headers []Header) Result {
	req, err := http.NewRequestWithContext(ctx, method, uri, nil)
	if err != nil {
		return Result{Err: err}
	}
	for _, h := range headers {
		req.Header.Add(h.Name, h.Value)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer res.Body.Close()

	limit := c.SampleLimit
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	hash := sha256.New()
	sample := &bytes.Buffer{}
	// the hash always sees the whole body; the sample is capped, keeping
	// memory cost independent of body size
	_, err = io.Copy(io.MultiWriter(hash, &capWriter{buf: sample, limit: limit}), res.Body)

	return Result{
		StatusCode: res.StatusCode,
		Headers:    flattenHeader(res.Header),
		Body:       sample.Bytes(),
		SHA256:     hex.EncodeToString(hash.Sum(nil)),
		Complete:   err == nil,
		Err:        err,
	}
}

// capWriter buffers up to limit bytes and silently discards the rest.
type capWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *capWriter) Write(p []byte) (int, error) {
	n := len(p)
	if room := w.limit - w.buf.Len(); room > 0 {
		if len(p) > room {
			p = p[:room]
		}
		w.buf.Write(p)
	}
	return n, nil
}

// flattenHeader turns an http.Header into an ordered sequence.
// Go's header map does not preserve wire order, so fields are emitted in
// sorted name order, with same-name values kept in receive order.
func flattenHeader(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Header, 0, len(h))
	for _, name := range names {
		for _, value := range h[name] {
			out = append(out, Header{Name: name, Value: value})
		}
	}
	return out
}
