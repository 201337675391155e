// Package check probes a live HTTP resource with secondary requests to see
// whether it really implements conditional validation, content negotiation
// and range retrieval, and records what it finds as notes.
package check

import (
	"github.com/enterstudio/redbot/fetch"
	"github.com/enterstudio/redbot/note"
)

// Support is a tri-state capability determination.
type Support int

const (
	Unknown Support = iota
	Supported
	NotSupported
)

func (s Support) String() string {
	switch s {
	case Supported:
		return "supported"
	case NotSupported:
		return "not-supported"
	default:
		return "unknown"
	}
}

// flagID names the capability flag a check owns. Each flag is written only
// by its owning check.
type flagID int

const (
	flagNone flagID = iota
	flagLastModified
	flagETag
	flagNegotiation
	flagRange
	flagCount
)

// Request is the base request under analysis.
type Request struct {
	Method  string
	URI     string
	Headers []fetch.Header
}

// Context holds everything known about one analyzed resource: the base
// exchange, the capability flags, the probes that ran, and the notes the
// checks emitted. It lives for the duration of one analysis.
//
// The context does no locking. All writes happen from the orchestrator
// loop, which is the single writer; anything running checks on parallel
// workers must route writes through one such loop.
type Context struct {
	Request  Request
	Response fetch.Result

	flags  [flagCount]Support
	probes map[string]*Probe
	notes  []*note.Note
}

// NewContext creates the context for one analyzed resource.
func NewContext(req Request, res fetch.Result) *Context {
	return &Context{
		Request:  req,
		Response: res,
		probes:   make(map[string]*Probe),
	}
}

// AddNote instantiates a note of the given kind and appends it to the
// context. Notes are never removed or mutated after this; their order is
// the order in which checks completed.
func (c *Context) AddNote(kind *note.Kind, subject string, params note.Params) *note.Note {
	n := note.New(kind, subject, params)
	c.notes = append(c.notes, n)
	return n
}

// Notes returns the accumulated notes in emission order.
func (c *Context) Notes() []*note.Note {
	return c.notes
}

// Probe returns the probe recorded under the given check name.
func (c *Context) Probe(name string) (*Probe, bool) {
	p, ok := c.probes[name]
	return p, ok
}

// Probes returns the probe map. It is keyed by check name; a name appears
// at most once.
func (c *Context) Probes() map[string]*Probe {
	return c.probes
}

func (c *Context) addProbe(p *Probe) {
	if _, ok := c.probes[p.Name()]; ok {
		// a check name is unique within one context
		panic("check: duplicate probe " + p.Name())
	}
	c.probes[p.Name()] = p
}

func (c *Context) setSupport(f flagID, s Support) {
	if f != flagNone {
		c.flags[f] = s
	}
}

func (c *Context) support(f flagID) Support {
	return c.flags[f]
}

// LastModifiedSupport reports whether If-Modified-Since validation works.
func (c *Context) LastModifiedSupport() Support { return c.flags[flagLastModified] }

// ETagSupport reports whether If-None-Match validation works.
func (c *Context) ETagSupport() Support { return c.flags[flagETag] }

// NegotiationSupport reports whether content negotiation works.
func (c *Context) NegotiationSupport() Support { return c.flags[flagNegotiation] }

// RangeSupport reports whether range retrieval works.
func (c *Context) RangeSupport() Support { return c.flags[flagRange] }
