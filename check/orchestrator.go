package check

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/enterstudio/redbot/fetch"
	"github.com/enterstudio/redbot/headermeta"
)

// Orchestrator runs the configured checks against one resource context.
// All configuration is explicit; there is no global state.
type Orchestrator struct {
	Transport fetch.Transport
	Meta      headermeta.Registry
	// Timeout bounds each individual probe, so one stalled server cannot
	// stall the whole analysis. Zero means no per-probe bound beyond ctx.
	Timeout time.Duration
	// Checks is the set of check tokens to run; DefaultChecks if empty.
	Checks []string
	Log    zerolog.Logger
}

type completion struct {
	probe  *Probe
	result fetch.Result
}

// Run creates a probe for every applicable check, dispatches them
// concurrently, and classifies completions as they arrive, in arrival
// order. Run is the sole writer of context state: every flag write and
// note append happens on this goroutine, so probes completing in any
// interleaving can never race on a context field.
//
// Cancelling ctx abandons in-flight probes without classifying them; a
// per-probe timeout, by contrast, is delivered to classification as a
// transport failure.
func (o *Orchestrator) Run(ctx context.Context, rc *Context) {
	checks := o.Checks
	if len(checks) == 0 {
		checks = DefaultChecks
	}

	done := make(chan completion)
	inflight := 0
	for _, name := range checks {
		construct, ok := constructors[name]
		if !ok {
			o.Log.Warn().Str("check", name).Msg("Unknown check")
			continue
		}
		probe := construct(rc, o.Meta)
		if !probe.IsApplicable() {
			o.Log.Trace().Str("check", name).Msg("Check not applicable")
			continue
		}
		rc.addProbe(probe)
		o.Log.Trace().Str("check", name).Msg("Dispatching probe")
		probe.Dispatch(ctx, o.Transport, o.Timeout, func(p *Probe, res fetch.Result) {
			select {
			case done <- completion{p, res}:
			case <-ctx.Done():
			}
		})
		inflight++
	}

	for inflight > 0 {
		select {
		case <-ctx.Done():
			o.Log.Debug().Int("inflight", inflight).Msg("Analysis cancelled, abandoning probes")
			return
		case c := <-done:
			c.probe.Classify(c.result)
			o.Log.Debug().
				Str("check", c.probe.Name()).
				Int("status", c.result.StatusCode).
				Str("support", c.probe.Support().String()).
				Msg("Probe classified")
			inflight--
		}
	}
}
