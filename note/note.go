// Package note holds the catalog of diagnostic findings.
//
// A Kind is a declarative template for one finding: its category, severity
// level, and renderable summary and detail texts. A Note is an immutable
// instance of a Kind, created when a check observes something worth
// reporting.
package note

import (
	"encoding/json"
	"strings"
	"sync/atomic"
)

// Category groups notes by the mechanism they concern.
type Category string

const (
	General            Category = "General"
	Security           Category = "Security"
	Connection         Category = "Connection"
	ContentNegotiation Category = "Content Negotiation"
	Caching            Category = "Caching"
	Validation         Category = "Validation"
	Range              Category = "Range"
)

// Level is the severity of a note.
type Level string

const (
	Good Level = "good"
	Warn Level = "warning"
	Bad  Level = "bad"
	Info Level = "info"
)

// Severity returns the sort weight of the level.
// Bad sorts above Warn, Warn above Info, Info above Good.
func (l Level) Severity() int {
	switch l {
	case Bad:
		return 3
	case Warn:
		return 2
	case Info:
		return 1
	default:
		return 0
	}
}

// DefaultLang is the language rendered when the requested one is unavailable.
const DefaultLang = "en"

// Params are the values substituted into a note's templates.
type Params map[string]string

// Kind is a template for one kind of diagnostic finding.
// Summary and Detail map language codes to template strings with
// {placeholder} parameters.
type Kind struct {
	Name     string
	Category Category
	Level    Level
	Summary  map[string]string
	Detail   map[string]string
}

// note IDs are minted from a process-wide counter, so they are stable for
// the lifetime of an analysis and unique across concurrent analyses
var idCounter atomic.Uint64

// Note is an immutable diagnostic finding.
type Note struct {
	id      uint64
	kind    *Kind
	subject string
	params  Params
}

// New instantiates a note of the given kind.
// The params map is copied, so the caller may reuse it.
func New(kind *Kind, subject string, params Params) *Note {
	p := make(Params, len(params))
	for k, v := range params {
		p[k] = v
	}
	return &Note{
		id:      idCounter.Add(1),
		kind:    kind,
		subject: subject,
		params:  p,
	}
}

// ID returns the note's stable identifier.
func (n *Note) ID() uint64 { return n.id }

// Kind returns the catalog template this note was created from.
func (n *Note) Kind() *Kind { return n.kind }

// Category returns the note's category.
func (n *Note) Category() Category { return n.kind.Category }

// Level returns the note's severity level.
func (n *Note) Level() Level { return n.kind.Level }

// Subject is the header or mechanism name the note is about.
func (n *Note) Subject() string { return n.subject }

// Param returns the named template parameter.
func (n *Note) Param(name string) string { return n.params[name] }

// RenderSummary renders the one-line summary in the given language,
// falling back to the default language. It never fails.
func (n *Note) RenderSummary(lang string) string {
	return render(n.kind.Summary, lang, n.params)
}

// RenderDetail renders the long-form detail text in the given language,
// falling back to the default language. It never fails.
func (n *Note) RenderDetail(lang string) string {
	return render(n.kind.Detail, lang, n.params)
}

func render(templates map[string]string, lang string, params Params) string {
	tpl, ok := templates[lang]
	if !ok {
		tpl = templates[DefaultLang]
	}
	if tpl == "" || len(params) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	// placeholders without a parameter are left verbatim
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// MarshalJSON renders the note for reporting.
func (n *Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       uint64   `json:"id"`
		Kind     string   `json:"kind"`
		Category Category `json:"category"`
		Level    Level    `json:"level"`
		Subject  string   `json:"subject"`
		Summary  string   `json:"summary"`
	}{n.id, n.kind.Name, n.kind.Category, n.kind.Level, n.subject, n.RenderSummary(DefaultLang)})
}
