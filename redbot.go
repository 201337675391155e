// Package redbot probes a live HTTP resource with a small set of
// secondary requests to find out whether it correctly implements
// conditional validation, content negotiation and range retrieval, and
// reports its findings as categorized, leveled notes.
package redbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/enterstudio/redbot/check"
	"github.com/enterstudio/redbot/fetch"
	"github.com/enterstudio/redbot/headermeta"
)

const defaultProbeTimeout = 10 * time.Second

// userAgent is sent on the base request and every probe.
const userAgent = "redbot/1.0 (resource checker)"

type Config struct {
	// Transport used for the base request and all probes.
	// fetch.NewClient() is used if nil.
	Transport fetch.Transport
	// Header metadata used for applicability decisions.
	// The builtin table is used if nil.
	Meta headermeta.Registry
	// Optional storage for finished reports.
	Store ReportStore
	// Check tokens to run; check.DefaultChecks if empty.
	Checks []string
	// Per-probe timeout. Defaults to 10 seconds.
	ProbeTimeout time.Duration
	// Extra headers to send on the base request.
	RequestHeaders []fetch.Header
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
}

// Checker analyzes resources. One Checker can be shared across analyses.
type Checker struct {
	transport  fetch.Transport
	meta       headermeta.Registry
	store      ReportStore
	checks     []string
	timeout    time.Duration
	reqHeaders []fetch.Header
	log        zerolog.Logger
}

// New initializes a Checker, filling in defaults for anything the config
// leaves unset.
func New(config Config) *Checker {
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *config.Logger
	}

	c := &Checker{
		transport:  config.Transport,
		meta:       config.Meta,
		store:      config.Store,
		checks:     config.Checks,
		timeout:    config.ProbeTimeout,
		reqHeaders: config.RequestHeaders,
		log:        logger,
	}
	if c.transport == nil {
		c.transport = fetch.NewClient()
	}
	if c.meta == nil {
		c.meta = headermeta.Builtin()
	}
	if c.timeout == 0 {
		c.timeout = defaultProbeTimeout
	}
	return c
}

// Analyze fetches the resource once, then runs every applicable check
// against it. The returned context carries the base exchange, the
// capability flags, the probe results and all emitted notes. The error is
// non-nil only if the base fetch itself failed; probe failures surface as
// notes, never as errors.
func (c *Checker) Analyze(ctx context.Context, method, uri string) (*check.Context, error) {
	log := c.log.With().Str("uri", uri).Logger()

	headers := c.baseHeaders()
	log.Debug().Str("method", method).Msg("Fetching resource")
	res := c.transport.Fetch(ctx, method, uri, headers)
	if res.Err != nil && res.StatusCode == 0 {
		return nil, fmt.Errorf("fetching %s: %w", uri, res.Err)
	}

	rc := check.NewContext(check.Request{Method: method, URI: uri, Headers: headers}, res)
	o := &check.Orchestrator{
		Transport: c.transport,
		Meta:      c.meta,
		Timeout:   c.timeout,
		Checks:    c.checks,
		Log:       log,
	}
	o.Run(ctx, rc)
	log.Debug().Int("notes", len(rc.Notes())).Msg("Analysis done")

	if c.store != nil {
		report := BuildReport(rc)
		if bytes, err := report.Encode(); err != nil {
			log.Error().Err(err).Msg("Could not encode report")
		} else if err := c.store.Put(uri, report.Time, bytes); err != nil {
			log.Error().Err(err).Msg("Could not store report")
		}
	}
	return rc, nil
}

// baseHeaders builds the base request headers: the configured extras plus
// a user agent and gzip support, unless the extras already cover those.
func (c *Checker) baseHeaders() []fetch.Header {
	headers := make([]fetch.Header, 0, len(c.reqHeaders)+2)
	headers = append(headers, c.reqHeaders...)
	if !hasHeader(headers, "User-Agent") {
		headers = append(headers, fetch.Header{Name: "User-Agent", Value: userAgent})
	}
	// advertising gzip on the base request is what arms the negotiation
	// check: only a gzip-coded base response makes it applicable
	if !hasHeader(headers, "Accept-Encoding") {
		headers = append(headers, fetch.Header{Name: "Accept-Encoding", Value: "gzip"})
	}
	return headers
}

func hasHeader(headers []fetch.Header, name string) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}
