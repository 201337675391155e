package check

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/enterstudio/redbot/fetch"
	"github.com/enterstudio/redbot/headermeta"
	"github.com/enterstudio/redbot/note"
)

// Check name tokens. Probe implementations are resolved from this closed
// set by table lookup, never by reflection.
const (
	CheckConneg       = "conneg"
	CheckRange        = "range"
	CheckETag         = "etag"
	CheckLastModified = "last-modified"
)

// DefaultChecks is the full check set, in dispatch order.
var DefaultChecks = []string{CheckConneg, CheckRange, CheckETag, CheckLastModified}

// constructors maps each check token to its probe constructor.
var constructors = map[string]func(*Context, headermeta.Registry) *Probe{
	CheckConneg:       newConnegProbe,
	CheckRange:        newRangeProbe,
	CheckETag:         newETagProbe,
	CheckLastModified: newLastModifiedProbe,
}

// branchKinds names the note kind emitted by each classification branch.
type branchKinds struct {
	// problem: the probe itself failed or was cut short
	problem *note.Kind
	// good: the mechanism demonstrably works
	good *note.Kind
	// full: same status as the base but different content, so the
	// mechanism did not suppress the transfer
	full *note.Kind
	// unchanged: same status and identical content, which proves nothing
	// either way
	unchanged *note.Kind
	// status: any other status code
	status *note.Kind
}

// mechanism is what distinguishes one concrete check from another: its
// applicability predicate, its header mutation, and its success
// determination. Everything else is shared by the Probe base.
type mechanism struct {
	name    string
	subject string
	flag    flagID
	kinds   branchKinds
	// applicable inspects the base response only. It may set the owned
	// flag to NotSupported when the precondition's absence is itself
	// conclusive.
	applicable func(c *Context) bool
	// headers derives the probe request headers from the base request.
	headers func(c *Context) []fetch.Header
	// succeeded reports whether the probe response shows the mechanism
	// working (e.g. 304 for validators, 206 for ranges).
	succeeded func(c *Context, res fetch.Result) bool
	// onSuccess, if set, emits additional notes beyond the good note.
	onSuccess func(c *Context, res fetch.Result)
}

// Probe is one diagnostic secondary request derived from the base
// exchange. Its lifecycle is applicability, header construction, dispatch,
// and exactly one classification.
type Probe struct {
	mech         mechanism
	base         *Context
	fetchStarted bool
	result       *fetch.Result
}

func newProbe(c *Context, m mechanism) *Probe {
	return &Probe{mech: m, base: c}
}

// Name returns the check name, unique within the context.
func (p *Probe) Name() string { return p.mech.name }

// FetchStarted reports whether the probe request was dispatched.
func (p *Probe) FetchStarted() bool { return p.fetchStarted }

// Result returns the probe's own response data, once classified.
func (p *Probe) Result() (fetch.Result, bool) {
	if p.result == nil {
		return fetch.Result{}, false
	}
	return *p.result, true
}

// Support returns the tri-state flag this check owns.
func (p *Probe) Support() Support { return p.base.support(p.mech.flag) }

// IsApplicable decides whether the probe should run at all. It inspects
// the base response only and never touches the network.
func (p *Probe) IsApplicable() bool {
	return p.mech.applicable(p.base)
}

// BuildProbeHeaders derives the probe request's headers from the base
// request, with the additions and removals specific to the mechanism
// under test.
func (p *Probe) BuildProbeHeaders() []fetch.Header {
	return p.mech.headers(p.base)
}

// Dispatch issues the probe request asynchronously. done is invoked
// exactly once with the completed exchange, whether it succeeded, failed
// or timed out; the probe is never retried. Callers must only dispatch
// probes whose IsApplicable returned true.
func (p *Probe) Dispatch(ctx context.Context, transport fetch.Transport, timeout time.Duration, done func(*Probe, fetch.Result)) {
	p.fetchStarted = true
	headers := p.BuildProbeHeaders()
	method := p.base.Request.Method
	uri := p.base.Request.URI
	go func() {
		pctx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			pctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		done(p, transport.Fetch(pctx, method, uri, headers))
	}()
}

// Classify turns the completed probe exchange into zero or more notes on
// the base context and, on the decisive branches, a write to the check's
// owned flag. It runs exactly once per dispatched probe, on the single
// writer goroutine, and never touches another check's state.
func (p *Probe) Classify(res fetch.Result) {
	p.result = &res
	c := p.base
	m := p.mech
	switch {
	case res.Err != nil || !res.Complete:
		c.AddNote(m.kinds.problem, m.subject, note.Params{"problem": problemDetail(res)})
	case m.succeeded(c, res):
		c.setSupport(m.flag, Supported)
		c.AddNote(m.kinds.good, m.subject, nil)
		if m.onSuccess != nil {
			m.onSuccess(c, res)
		}
	case res.StatusCode == c.Response.StatusCode && res.SHA256 != c.Response.SHA256:
		c.setSupport(m.flag, NotSupported)
		c.AddNote(m.kinds.full, m.subject, nil)
	case res.StatusCode == c.Response.StatusCode:
		// identical content under the same status proves nothing; leave
		// the flag at whatever was determined before
		c.AddNote(m.kinds.unchanged, m.subject, note.Params{"status": strconv.Itoa(res.StatusCode)})
	default:
		c.AddNote(m.kinds.status, m.subject, note.Params{"status": strconv.Itoa(res.StatusCode)})
	}
}

func problemDetail(res fetch.Result) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	return "the response body was cut short"
}

// validationHeaders are the headers a server should keep sending on a
// validation hit.
var validationHeaders = []string{"Cache-Control", "Content-Location", "ETag", "Expires", "Vary"}

// checkMissingValidationHeaders emits one note per expected header absent
// from the 304 response, each naming that header.
func checkMissingValidationHeaders(c *Context, res fetch.Result, condHeader string) {
	for _, name := range validationHeaders {
		if !res.HasHeader(name) {
			c.AddNote(Missing304Header, name, note.Params{
				"header": name,
				"subreq": condHeader,
			})
		}
	}
}

// withHeader returns the header sequence with any same-named fields
// removed and the given field appended.
func withHeader(headers []fetch.Header, name, value string) []fetch.Header {
	out := make([]fetch.Header, 0, len(headers)+1)
	for _, h := range headers {
		if !strings.EqualFold(h.Name, name) {
			out = append(out, h)
		}
	}
	return append(out, fetch.Header{Name: name, Value: value})
}

// headerKnown reports whether the registry knows the governing header of a
// check. Unknown headers make the check inapplicable.
func headerKnown(meta headermeta.Registry, name string) bool {
	if meta == nil {
		return true
	}
	_, ok := meta.Describe(name)
	return ok
}
