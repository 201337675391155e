package check

import (
	"strings"

	"github.com/enterstudio/redbot/fetch"
	"github.com/enterstudio/redbot/headermeta"
)

// newConnegProbe checks whether gzip content negotiation actually selects
// a different variant. It only applies when the base response came back
// gzip content-coded, which means the base request advertised gzip.
func newConnegProbe(c *Context, meta headermeta.Registry) *Probe {
	return newProbe(c, mechanism{
		name:    CheckConneg,
		subject: "Content-Encoding",
		flag:    flagNegotiation,
		kinds: branchKinds{
			problem:   ConnegProblem,
			good:      ConnegGood,
			full:      ConnegFull,
			unchanged: ConnegUnchanged,
			status:    ConnegStatus,
		},
		applicable: func(c *Context) bool {
			if !headerKnown(meta, "Content-Encoding") {
				return false
			}
			return gzipCoded(c.Response)
		},
		headers: func(c *Context) []fetch.Header {
			return withHeader(c.Request.Headers, "Accept-Encoding", "identity")
		},
		succeeded: func(c *Context, res fetch.Result) bool {
			// success means a genuinely different variant was selected:
			// the same status, no longer gzip-coded
			return res.StatusCode == c.Response.StatusCode && !gzipCoded(res)
		},
	})
}

// gzipCoded reports whether the response body carries the gzip content
// coding.
func gzipCoded(res fetch.Result) bool {
	for _, h := range res.Headers {
		if !strings.EqualFold(h.Name, "Content-Encoding") {
			continue
		}
		for _, coding := range strings.Split(h.Value, ",") {
			if strings.EqualFold(strings.TrimSpace(coding), "gzip") {
				return true
			}
		}
	}
	return false
}
