package redbot

import (
	"encoding/json"
	"time"

	"github.com/enterstudio/redbot/check"
	"github.com/enterstudio/redbot/note"
)

// Report is the JSON-encodable view of a finished analysis, consumed by
// the CLI and the server mode and persisted by the report store.
type Report struct {
	URI    string    `json:"uri"`
	Method string    `json:"method"`
	Time   time.Time `json:"time"`
	Status int       `json:"status"`

	LastModifiedSupport string `json:"lastModifiedSupport"`
	ETagSupport         string `json:"etagSupport"`
	NegotiationSupport  string `json:"negotiationSupport"`
	RangeSupport        string `json:"rangeSupport"`

	Probes []ProbeResult `json:"probes"`
	Notes  []*note.Note  `json:"notes"`
}

// ProbeResult summarizes one probe for reporting.
type ProbeResult struct {
	Check        string `json:"check"`
	FetchStarted bool   `json:"fetchStarted"`
	Status       int    `json:"status,omitempty"`
	Complete     bool   `json:"complete"`
	Error        string `json:"error,omitempty"`
}

// BuildReport flattens a resource context into a Report.
func BuildReport(rc *check.Context) Report {
	r := Report{
		URI:    rc.Request.URI,
		Method: rc.Request.Method,
		Time:   time.Now(),
		Status: rc.Response.StatusCode,

		LastModifiedSupport: rc.LastModifiedSupport().String(),
		ETagSupport:         rc.ETagSupport().String(),
		NegotiationSupport:  rc.NegotiationSupport().String(),
		RangeSupport:        rc.RangeSupport().String(),

		Notes: rc.Notes(),
	}
	for _, name := range check.DefaultChecks {
		probe, ok := rc.Probe(name)
		if !ok {
			continue
		}
		pr := ProbeResult{Check: name, FetchStarted: probe.FetchStarted()}
		if res, ok := probe.Result(); ok {
			pr.Status = res.StatusCode
			pr.Complete = res.Complete
			if res.Err != nil {
				pr.Error = res.Err.Error()
			}
		}
		r.Probes = append(r.Probes, pr)
	}
	return r
}

// Encode marshals the report for storage or transfer.
func (r Report) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// HasLevel reports whether any note of the given level was emitted.
func (r Report) HasLevel(level note.Level) bool {
	for _, n := range r.Notes {
		if n.Level() == level {
			return true
		}
	}
	return false
}
