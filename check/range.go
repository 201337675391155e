package check

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/enterstudio/redbot/fetch"
	"github.com/enterstudio/redbot/headermeta"
	"github.com/enterstudio/redbot/note"
)

// newRangeProbe checks whether byte-range retrieval actually works when
// the resource advertises it with Accept-Ranges.
func newRangeProbe(c *Context, meta headermeta.Registry) *Probe {
	// the probed range is a deterministic slice out of the middle of the
	// sampled body, so the result is comparable against known bytes
	var start, end int

	return newProbe(c, mechanism{
		name:    CheckRange,
		subject: "Accept-Ranges",
		flag:    flagRange,
		kinds: branchKinds{
			problem:   RangeProblem,
			good:      RangeCorrect,
			full:      RangeFull,
			unchanged: RangeUnchanged,
			status:    RangeStatus,
		},
		applicable: func(c *Context) bool {
			if !headerKnown(meta, "Accept-Ranges") {
				return false
			}
			if !acceptsByteRanges(c.Response) {
				// the resource says it does not do byte ranges
				c.setSupport(flagRange, NotSupported)
				return false
			}
			if !c.Response.Complete || len(c.Response.Body) == 0 {
				// nothing to compare a partial response against
				return false
			}
			n := len(c.Response.Body)
			start = n / 4
			end = start + n/4
			if end >= n {
				end = n - 1
			}
			return true
		},
		headers: func(c *Context) []fetch.Header {
			return withHeader(c.Request.Headers, "Range", fmt.Sprintf("bytes=%d-%d", start, end))
		},
		succeeded: func(c *Context, res fetch.Result) bool {
			return res.StatusCode == http.StatusPartialContent
		},
		onSuccess: func(c *Context, res fetch.Result) {
			expected := c.Response.Body[start : end+1]
			if !bytes.Equal(res.Body, expected) {
				c.AddNote(RangeIncorrect, "Range", note.Params{
					"range": fmt.Sprintf("bytes=%d-%d", start, end),
				})
			}
		},
	})
}

// acceptsByteRanges reports whether Accept-Ranges lists the bytes unit.
func acceptsByteRanges(res fetch.Result) bool {
	for _, h := range res.Headers {
		if !strings.EqualFold(h.Name, "Accept-Ranges") {
			continue
		}
		for _, unit := range strings.Split(h.Value, ",") {
			if strings.EqualFold(strings.TrimSpace(unit), "bytes") {
				return true
			}
		}
	}
	return false
}
