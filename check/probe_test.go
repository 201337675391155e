package check

import (
	"errors"
	"net/http"
	"testing"

	"github.com/enterstudio/redbot/fetch"
	"github.com/enterstudio/redbot/headermeta"
	"github.com/enterstudio/redbot/note"
)

const (
	baseHash  = "1111111111111111111111111111111111111111111111111111111111111111"
	otherHash = "2222222222222222222222222222222222222222222222222222222222222222"
)

func baseContext(resHeaders ...fetch.Header) *Context {
	return NewContext(
		Request{
			Method:  "GET",
			URI:     "http://example.com/",
			Headers: []fetch.Header{{Name: "User-Agent", Value: "test"}},
		},
		fetch.Result{
			StatusCode: http.StatusOK,
			Headers:    resHeaders,
			Body:       []byte("0123456789abcdef"),
			SHA256:     baseHash,
			Complete:   true,
		},
	)
}

func notesOf(c *Context, kind *note.Kind) []*note.Note {
	var out []*note.Note
	for _, n := range c.Notes() {
		if n.Kind() == kind {
			out = append(out, n)
		}
	}
	return out
}

func all304Headers() []fetch.Header {
	return []fetch.Header{
		{Name: "Cache-Control", Value: "max-age=60"},
		{Name: "Content-Location", Value: "/elsewhere"},
		{Name: "ETag", Value: `"v1"`},
		{Name: "Expires", Value: "Tue, 15 Nov 1994 12:45:26 GMT"},
		{Name: "Vary", Value: "Accept-Encoding"},
	}
}

func TestLastModifiedNotApplicableWithoutHeader(t *testing.T) {
	c := baseContext()
	p := newLastModifiedProbe(c, headermeta.Builtin())

	if p.IsApplicable() {
		t.Fatal("Probe should not be applicable")
	}
	// a missing validator is itself conclusive
	if c.LastModifiedSupport() != NotSupported {
		t.Fatalf("Support is %s", c.LastModifiedSupport())
	}
	if len(c.Notes()) != 0 {
		t.Fatalf("Emitted %d notes", len(c.Notes()))
	}
}

func TestLastModifiedNotApplicableWhenHeaderUnknown(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "Tue, 15 Nov 1994 12:45:26 GMT"})
	p := newLastModifiedProbe(c, headermeta.Table{})

	if p.IsApplicable() {
		t.Fatal("Probe should not be applicable with an unknown header")
	}
	if c.LastModifiedSupport() != Unknown {
		t.Fatalf("Support is %s", c.LastModifiedSupport())
	}
}

func TestLastModifiedProbeHeaders(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "Sun, 05 Mar 2023 07:08:09 GMT"})
	p := newLastModifiedProbe(c, headermeta.Builtin())

	headers := p.BuildProbeHeaders()
	found := ""
	for _, h := range headers {
		if h.Name == "If-Modified-Since" {
			found = h.Value
		}
	}
	if found != "Sun, 05 Mar 2023 07:08:09 GMT" {
		t.Fatalf("If-Modified-Since is %q", found)
	}
}

func TestLastModifiedProbeHeadersFallBackOnBadTimestamp(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "not a date"})
	p := newLastModifiedProbe(c, headermeta.Builtin())

	if !p.IsApplicable() {
		t.Fatal("Probe should be applicable on presence alone")
	}
	headers := p.BuildProbeHeaders()
	if len(headers) != len(c.Request.Headers) {
		t.Fatalf("Headers were modified: %v", headers)
	}
}

func TestLastModified304SetsSupported(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "Sun, 05 Mar 2023 07:08:09 GMT"})
	p := newLastModifiedProbe(c, headermeta.Builtin())

	p.Classify(fetch.Result{
		StatusCode: http.StatusNotModified,
		Headers:    all304Headers(),
		Complete:   true,
	})

	if c.LastModifiedSupport() != Supported {
		t.Fatalf("Support is %s", c.LastModifiedSupport())
	}
	if got := notesOf(c, IMS304); len(got) != 1 {
		t.Fatalf("Got %d good notes", len(got))
	}
	if len(c.Notes()) != 1 {
		t.Fatalf("Emitted %d notes", len(c.Notes()))
	}
}

func TestLastModified304ReportsEachMissingHeader(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "Sun, 05 Mar 2023 07:08:09 GMT"})
	p := newLastModifiedProbe(c, headermeta.Builtin())

	p.Classify(fetch.Result{
		StatusCode: http.StatusNotModified,
		Headers:    []fetch.Header{{Name: "ETag", Value: `"v1"`}},
		Complete:   true,
	})

	missing := notesOf(c, Missing304Header)
	if len(missing) != 4 {
		t.Fatalf("Got %d missing-header notes", len(missing))
	}
	subjects := make(map[string]bool)
	for _, n := range missing {
		subjects[n.Subject()] = true
	}
	for _, name := range []string{"Cache-Control", "Content-Location", "Expires", "Vary"} {
		if !subjects[name] {
			t.Fatalf("No note for missing %s", name)
		}
	}
	if subjects["ETag"] {
		t.Fatal("Got a note for a header that was present")
	}
}

func TestLastModifiedFullDifferentContent(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "Sun, 05 Mar 2023 07:08:09 GMT"})
	p := newLastModifiedProbe(c, headermeta.Builtin())

	p.Classify(fetch.Result{StatusCode: http.StatusOK, SHA256: otherHash, Complete: true})

	if c.LastModifiedSupport() != NotSupported {
		t.Fatalf("Support is %s", c.LastModifiedSupport())
	}
	if got := notesOf(c, IMSFull); len(got) != 1 {
		t.Fatalf("Got %d warn notes", len(got))
	}
	if len(c.Notes()) != 1 {
		t.Fatalf("Emitted %d notes", len(c.Notes()))
	}
}

func TestLastModifiedUnchangedContentIsInconclusive(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "Sun, 05 Mar 2023 07:08:09 GMT"})
	p := newLastModifiedProbe(c, headermeta.Builtin())

	p.Classify(fetch.Result{StatusCode: http.StatusOK, SHA256: baseHash, Complete: true})

	if c.LastModifiedSupport() != Unknown {
		t.Fatalf("Support is %s", c.LastModifiedSupport())
	}
	got := notesOf(c, IMSUnchanged)
	if len(got) != 1 {
		t.Fatalf("Got %d info notes", len(got))
	}
	if got[0].Param("status") != "200" {
		t.Fatalf("Status param is %q", got[0].Param("status"))
	}
}

func TestLastModifiedUnexpectedStatus(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "Sun, 05 Mar 2023 07:08:09 GMT"})
	p := newLastModifiedProbe(c, headermeta.Builtin())

	p.Classify(fetch.Result{StatusCode: http.StatusInternalServerError, SHA256: otherHash, Complete: true})

	if c.LastModifiedSupport() != Unknown {
		t.Fatalf("Support is %s", c.LastModifiedSupport())
	}
	got := notesOf(c, IMSStatus)
	if len(got) != 1 {
		t.Fatalf("Got %d status notes", len(got))
	}
	if got[0].Param("status") != "500" {
		t.Fatalf("Status param is %q", got[0].Param("status"))
	}
}

func TestLastModifiedTransportFailure(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "Sun, 05 Mar 2023 07:08:09 GMT"})
	p := newLastModifiedProbe(c, headermeta.Builtin())

	p.Classify(fetch.Result{Err: errors.New("connection refused")})

	if c.LastModifiedSupport() != Unknown {
		t.Fatalf("Support is %s", c.LastModifiedSupport())
	}
	got := notesOf(c, LMProblem)
	if len(got) != 1 {
		t.Fatalf("Got %d problem notes", len(got))
	}
	if got[0].Param("problem") != "connection refused" {
		t.Fatalf("Problem param is %q", got[0].Param("problem"))
	}
	if _, ok := p.Result(); !ok {
		t.Fatal("Completion was not recorded")
	}
}

func TestLastModifiedIncompleteResponseIsAProblem(t *testing.T) {
	c := baseContext(fetch.Header{Name: "Last-Modified", Value: "Sun, 05 Mar 2023 07:08:09 GMT"})
	p := newLastModifiedProbe(c, headermeta.Builtin())

	p.Classify(fetch.Result{StatusCode: http.StatusOK, SHA256: otherHash, Complete: false})

	if got := notesOf(c, LMProblem); len(got) != 1 {
		t.Fatalf("Got %d problem notes", len(got))
	}
	if c.LastModifiedSupport() != Unknown {
		t.Fatalf("Support is %s", c.LastModifiedSupport())
	}
}

func TestETagNotApplicableWithoutHeader(t *testing.T) {
	c := baseContext()
	p := newETagProbe(c, headermeta.Builtin())

	if p.IsApplicable() {
		t.Fatal("Probe should not be applicable")
	}
	if c.ETagSupport() != NotSupported {
		t.Fatalf("Support is %s", c.ETagSupport())
	}
}

func TestETagProbeSendsTagVerbatim(t *testing.T) {
	c := baseContext(fetch.Header{Name: "ETag", Value: `W/"weak-tag"`})
	p := newETagProbe(c, headermeta.Builtin())

	if !p.IsApplicable() {
		t.Fatal("Probe should be applicable")
	}
	found := ""
	for _, h := range p.BuildProbeHeaders() {
		if h.Name == "If-None-Match" {
			found = h.Value
		}
	}
	if found != `W/"weak-tag"` {
		t.Fatalf("If-None-Match is %q", found)
	}
}

func TestETag304SetsSupported(t *testing.T) {
	c := baseContext(fetch.Header{Name: "ETag", Value: `"v1"`})
	p := newETagProbe(c, headermeta.Builtin())

	p.Classify(fetch.Result{
		StatusCode: http.StatusNotModified,
		Headers:    all304Headers(),
		Complete:   true,
	})

	if c.ETagSupport() != Supported {
		t.Fatalf("Support is %s", c.ETagSupport())
	}
	if got := notesOf(c, INM304); len(got) != 1 {
		t.Fatalf("Got %d good notes", len(got))
	}
}

func TestChecksDoNotTouchEachOthersFlags(t *testing.T) {
	c := baseContext(
		fetch.Header{Name: "Last-Modified", Value: "Sun, 05 Mar 2023 07:08:09 GMT"},
		fetch.Header{Name: "ETag", Value: `"v1"`},
	)
	lm := newLastModifiedProbe(c, headermeta.Builtin())
	etag := newETagProbe(c, headermeta.Builtin())

	lm.Classify(fetch.Result{StatusCode: http.StatusNotModified, Headers: all304Headers(), Complete: true})
	etag.Classify(fetch.Result{StatusCode: http.StatusOK, SHA256: otherHash, Complete: true})

	if c.LastModifiedSupport() != Supported {
		t.Fatalf("Last-Modified support is %s", c.LastModifiedSupport())
	}
	if c.ETagSupport() != NotSupported {
		t.Fatalf("ETag support is %s", c.ETagSupport())
	}
}
