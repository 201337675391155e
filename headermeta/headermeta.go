// Package headermeta looks up what is known about HTTP header fields.
// The checks use it to decide whether a header-dependent check applies at
// all; the metadata itself lives outside the check logic.
package headermeta

import "strings"

// Description is what is known about one HTTP header field.
type Description struct {
	Name        string
	Description string
}

// Registry looks up header metadata.
type Registry interface {
	// Describe returns the metadata for the named header and whether the
	// header is known at all. Lookup is case-insensitive.
	Describe(name string) (Description, bool)
}

// Table is an in-memory Registry keyed by lowercased header name.
type Table map[string]Description

// Describe implements Registry.
func (t Table) Describe(name string) (Description, bool) {
	d, ok := t[strings.ToLower(name)]
	return d, ok
}

// Builtin returns the compiled-in header table. It covers the headers the
// active checks depend on; callers wanting a fuller table can layer a
// database-backed registry on top.
func Builtin() Table {
	t := Table{}
	for _, d := range []Description{
		{"Accept-Encoding", "Lists the content codings the client will accept in a response."},
		{"Accept-Ranges", "Indicates that the server accepts range requests for a resource."},
		{"Cache-Control", "Directives controlling how caches may store and reuse the response."},
		{"Content-Encoding", "The content codings applied to the response body."},
		{"Content-Location", "An alternate location for the returned representation."},
		{"Content-Range", "Which part of the full representation a partial response carries."},
		{"ETag", "An opaque validator for the returned representation."},
		{"Expires", "The time after which the response is considered stale."},
		{"If-Modified-Since", "Makes the request conditional on the representation having changed since the given time."},
		{"If-None-Match", "Makes the request conditional on none of the given entity tags matching."},
		{"Last-Modified", "The time at which the representation was last changed, usable as a validator."},
		{"Range", "Requests transfer of only part of the representation."},
		{"Vary", "The request headers the server used to select this representation."},
	} {
		t[strings.ToLower(d.Name)] = d
	}
	return t
}
