package check

import (
	"net/http"

	"github.com/enterstudio/redbot/fetch"
	"github.com/enterstudio/redbot/headermeta"
)

// newETagProbe checks whether If-None-Match validation against the
// response's entity tag actually works.
func newETagProbe(c *Context, meta headermeta.Registry) *Probe {
	return newProbe(c, mechanism{
		name:    CheckETag,
		subject: "ETag",
		flag:    flagETag,
		kinds: branchKinds{
			problem:   ETagProblem,
			good:      INM304,
			full:      INMFull,
			unchanged: INMUnchanged,
			status:    INMStatus,
		},
		applicable: func(c *Context) bool {
			if !headerKnown(meta, "ETag") {
				return false
			}
			if !c.Response.HasHeader("ETag") {
				c.setSupport(flagETag, NotSupported)
				return false
			}
			return true
		},
		headers: func(c *Context) []fetch.Header {
			// the tag is sent back verbatim, weakness marker and quotes
			// included
			return withHeader(c.Request.Headers, "If-None-Match", c.Response.Header("ETag"))
		},
		succeeded: func(c *Context, res fetch.Result) bool {
			return res.StatusCode == http.StatusNotModified
		},
		onSuccess: func(c *Context, res fetch.Result) {
			checkMissingValidationHeaders(c, res, "If-None-Match")
		},
	})
}
