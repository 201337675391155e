package check

import (
	"fmt"
	"net/http"
	"time"

	"github.com/enterstudio/redbot/fetch"
	"github.com/enterstudio/redbot/headermeta"
)

// Conditional header values are rendered from these static tables so the
// output is byte-identical regardless of locale.
var (
	httpWeekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	httpMonths   = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// httpDate formats t as an HTTP-date, e.g. "Sun, 05 Mar 2023 07:08:09 GMT".
func httpDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s, %02d %s %04d %02d:%02d:%02d GMT",
		httpWeekdays[t.Weekday()], t.Day(), httpMonths[t.Month()-1],
		t.Year(), t.Hour(), t.Minute(), t.Second())
}

// newLastModifiedProbe checks whether If-Modified-Since validation against
// the response's Last-Modified timestamp actually works.
func newLastModifiedProbe(c *Context, meta headermeta.Registry) *Probe {
	return newProbe(c, mechanism{
		name:    CheckLastModified,
		subject: "Last-Modified",
		flag:    flagLastModified,
		kinds: branchKinds{
			problem:   LMProblem,
			good:      IMS304,
			full:      IMSFull,
			unchanged: IMSUnchanged,
			status:    IMSStatus,
		},
		applicable: func(c *Context) bool {
			if !headerKnown(meta, "Last-Modified") {
				return false
			}
			if !c.Response.HasHeader("Last-Modified") {
				// no validator at all is itself conclusive
				c.setSupport(flagLastModified, NotSupported)
				return false
			}
			return true
		},
		headers: func(c *Context) []fetch.Header {
			lm, err := http.ParseTime(c.Response.Header("Last-Modified"))
			if err != nil {
				// an uninterpretable timestamp degrades the check to a
				// plain re-fetch rather than failing construction
				return c.Request.Headers
			}
			return withHeader(c.Request.Headers, "If-Modified-Since", httpDate(lm))
		},
		succeeded: func(c *Context, res fetch.Result) bool {
			return res.StatusCode == http.StatusNotModified
		},
		onSuccess: func(c *Context, res fetch.Result) {
			checkMissingValidationHeaders(c, res, "If-Modified-Since")
		},
	})
}
