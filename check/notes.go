package check

import "github.com/enterstudio/redbot/note"

// The catalog of note kinds the active checks can emit. Every finding goes
// through one of these templates; checks never construct ad-hoc notes.

func en(s string) map[string]string {
	return map[string]string{note.DefaultLang: s}
}

var (
	// shared by both validator checks

	Missing304Header = &note.Kind{
		Name:     "MISSING_HDRS_304",
		Category: note.Caching,
		Level:    note.Warn,
		Summary:  en("The {header} header is missing from the 304 response."),
		Detail: en("A 304 Not Modified response needs to carry the headers that a cache " +
			"would use to update its stored copy. This resource's response to a " +
			"conditional {subreq} request did not include the {header} header, so " +
			"caches validating against it may end up with stale metadata."),
	}

	// Last-Modified validation

	LMProblem = &note.Kind{
		Name:     "LM_SUBREQ_PROBLEM",
		Category: note.Validation,
		Level:    note.Bad,
		Summary:  en("There was a problem checking for Last-Modified validation support."),
		Detail: en("When the resource was checked for Last-Modified validation support, " +
			"the probe request did not complete: {problem}. Trying again might fix it."),
	}
	IMS304 = &note.Kind{
		Name:     "IMS_304",
		Category: note.Validation,
		Level:    note.Good,
		Summary:  en("If-Modified-Since conditional requests are supported."),
		Detail: en("HTTP allows clients to make conditional requests to see if a copy that " +
			"they hold is still valid. Since this response has a Last-Modified header, " +
			"clients should be able to use an If-Modified-Since request header for " +
			"validation. A conditional request was answered with 304 Not Modified, " +
			"indicating that Last-Modified validation is supported."),
	}
	IMSFull = &note.Kind{
		Name:     "IMS_FULL",
		Category: note.Validation,
		Level:    note.Warn,
		Summary:  en("An If-Modified-Since conditional request returned new full content."),
		Detail: en("An If-Modified-Since conditional request was answered with the same " +
			"status as the original response but different content, so the conditional " +
			"did not suppress transfer of the current representation. Last-Modified " +
			"validation does not appear to be supported."),
	}
	IMSUnchanged = &note.Kind{
		Name:     "IMS_UNCHANGED",
		Category: note.Validation,
		Level:    note.Info,
		Summary:  en("An If-Modified-Since conditional request returned identical content with a {status} status."),
		Detail: en("An If-Modified-Since conditional request was answered with a {status} " +
			"status and content identical to the original response. That could mean " +
			"validation is unsupported, or that the content legitimately did not change; " +
			"the two cannot be told apart."),
	}
	IMSStatus = &note.Kind{
		Name:     "IMS_STATUS",
		Category: note.Validation,
		Level:    note.Info,
		Summary:  en("An If-Modified-Since conditional request returned a {status} status."),
		Detail: en("An If-Modified-Since conditional request was answered with a {status} " +
			"status, so it is not possible to tell whether Last-Modified validation is " +
			"supported."),
	}

	// ETag validation

	ETagProblem = &note.Kind{
		Name:     "ETAG_SUBREQ_PROBLEM",
		Category: note.Validation,
		Level:    note.Bad,
		Summary:  en("There was a problem checking for ETag validation support."),
		Detail: en("When the resource was checked for ETag validation support, the probe " +
			"request did not complete: {problem}. Trying again might fix it."),
	}
	INM304 = &note.Kind{
		Name:     "INM_304",
		Category: note.Validation,
		Level:    note.Good,
		Summary:  en("If-None-Match conditional requests are supported."),
		Detail: en("HTTP allows clients to make conditional requests to see if a copy that " +
			"they hold is still valid. Since this response has an ETag header, clients " +
			"should be able to use an If-None-Match request header for validation. A " +
			"conditional request was answered with 304 Not Modified, indicating that " +
			"ETag validation is supported."),
	}
	INMFull = &note.Kind{
		Name:     "INM_FULL",
		Category: note.Validation,
		Level:    note.Warn,
		Summary:  en("An If-None-Match conditional request returned new full content."),
		Detail: en("An If-None-Match conditional request was answered with the same status " +
			"as the original response but different content, so the conditional did not " +
			"suppress transfer of the current representation. ETag validation does not " +
			"appear to be supported."),
	}
	INMUnchanged = &note.Kind{
		Name:     "INM_UNCHANGED",
		Category: note.Validation,
		Level:    note.Info,
		Summary:  en("An If-None-Match conditional request returned identical content with a {status} status."),
		Detail: en("An If-None-Match conditional request was answered with a {status} " +
			"status and content identical to the original response. That could mean " +
			"validation is unsupported, or that the content legitimately did not change; " +
			"the two cannot be told apart."),
	}
	INMStatus = &note.Kind{
		Name:     "INM_STATUS",
		Category: note.Validation,
		Level:    note.Info,
		Summary:  en("An If-None-Match conditional request returned a {status} status."),
		Detail: en("An If-None-Match conditional request was answered with a {status} " +
			"status, so it is not possible to tell whether ETag validation is supported."),
	}

	// content negotiation

	ConnegProblem = &note.Kind{
		Name:     "CONNEG_SUBREQ_PROBLEM",
		Category: note.ContentNegotiation,
		Level:    note.Bad,
		Summary:  en("There was a problem checking for content negotiation support."),
		Detail: en("When the resource was checked for content negotiation support, the " +
			"probe request did not complete: {problem}. Trying again might fix it."),
	}
	ConnegGood = &note.Kind{
		Name:     "CONNEG_GZIP",
		Category: note.ContentNegotiation,
		Level:    note.Good,
		Summary:  en("Content negotiation for gzip compression is supported."),
		Detail: en("The original response was gzip content-coded because the request asked " +
			"for it. A request that did not ask for gzip was answered with a different, " +
			"uncompressed variant, so the server actually negotiates the content coding."),
	}
	ConnegFull = &note.Kind{
		Name:     "CONNEG_NO_VARIANT",
		Category: note.ContentNegotiation,
		Level:    note.Warn,
		Summary:  en("The server sends gzip-compressed content whether or not it was asked for."),
		Detail: en("A request that did not advertise gzip support was answered with " +
			"different content that was still gzip content-coded. Clients that cannot " +
			"decompress gzip will not be able to use this resource."),
	}
	ConnegUnchanged = &note.Kind{
		Name:     "CONNEG_UNCHANGED",
		Category: note.ContentNegotiation,
		Level:    note.Info,
		Summary:  en("A request without gzip support returned identical content with a {status} status."),
		Detail: en("A request that did not advertise gzip support was answered with a " +
			"{status} status and content byte-identical to the original, compressed " +
			"response. The server does not appear to have selected a different variant, " +
			"but this alone is not conclusive."),
	}
	ConnegStatus = &note.Kind{
		Name:     "CONNEG_STATUS",
		Category: note.ContentNegotiation,
		Level:    note.Info,
		Summary:  en("A request without gzip support returned a {status} status."),
		Detail: en("A request that did not advertise gzip support was answered with a " +
			"{status} status, so it is not possible to tell whether content negotiation " +
			"is supported."),
	}

	// range retrieval

	RangeProblem = &note.Kind{
		Name:     "RANGE_SUBREQ_PROBLEM",
		Category: note.Range,
		Level:    note.Bad,
		Summary:  en("There was a problem checking for range request support."),
		Detail: en("When the resource was checked for range request support, the probe " +
			"request did not complete: {problem}. Trying again might fix it."),
	}
	RangeCorrect = &note.Kind{
		Name:     "RANGE_206",
		Category: note.Range,
		Level:    note.Good,
		Summary:  en("Range requests are supported."),
		Detail: en("The resource advertises support for range requests with Accept-Ranges, " +
			"and a request for a partial range was answered with 206 Partial Content. " +
			"Clients can resume interrupted downloads of this resource."),
	}
	RangeIncorrect = &note.Kind{
		Name:     "RANGE_INCORRECT",
		Category: note.Range,
		Level:    note.Warn,
		Summary:  en("A range request returned partial content that does not match the full content."),
		Detail: en("A request for the byte range {range} was answered with 206 Partial " +
			"Content, but the returned bytes differ from the corresponding part of the " +
			"original response. Clients resuming a download would end up with a corrupt " +
			"copy."),
	}
	RangeFull = &note.Kind{
		Name:     "RANGE_FULL",
		Category: note.Range,
		Level:    note.Warn,
		Summary:  en("A range request returned new full content."),
		Detail: en("A request for a partial range was answered with the same status as the " +
			"original response but different content, so the range was not honoured and " +
			"the full, changed representation was transferred instead. Range requests do " +
			"not appear to be supported."),
	}
	RangeUnchanged = &note.Kind{
		Name:     "RANGE_UNCHANGED",
		Category: note.Range,
		Level:    note.Info,
		Summary:  en("A range request returned identical full content with a {status} status."),
		Detail: en("A request for a partial range was answered with a {status} status and " +
			"the complete, unchanged content. The range was not honoured, but since the " +
			"content did not change this alone is not conclusive."),
	}
	RangeStatus = &note.Kind{
		Name:     "RANGE_STATUS",
		Category: note.Range,
		Level:    note.Info,
		Summary:  en("A range request returned a {status} status."),
		Detail: en("A request for a partial range was answered with a {status} status, so " +
			"it is not possible to tell whether range requests are supported."),
	}
)
