package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// Dispatcher coordinates multi-engine racing with staged escalation.
// It starts the fastest engine first and progressively escalates to heavier
// engines if earlier ones fail or take too long. A Dispatcher is itself an
// Engine, so callers do not care whether they hold one engine or several.
type Dispatcher struct {
	engines          []Engine
	escalationDelays []time.Duration
	memory           *DomainMemory
}

// NewDispatcher creates a Dispatcher with the given engines and escalation delays.
// engines[i] starts after escalationDelays[i] from the race beginning.
// Missing delays default to zero. memory may be nil.
func NewDispatcher(engines []Engine, escalationDelays []time.Duration, memory *DomainMemory) *Dispatcher {
	delays := make([]time.Duration, len(engines))
	copy(delays, escalationDelays)
	return &Dispatcher{
		engines:          engines,
		escalationDelays: delays,
		memory:           memory,
	}
}

func (d *Dispatcher) Name() string { return "dispatcher" }

// Names lists the engines in escalation order.
func (d *Dispatcher) Names() []string {
	names := make([]string, len(d.engines))
	for i, e := range d.engines {
		names[i] = e.Name()
	}
	return names
}

// Fetch runs the race for the given request and returns the first
// successful result. If all engines fail, it returns the error of the
// lowest-tier engine, which carries the most specific failure (a 404 from
// the HTTP engine says more than a browser timeout on the same page).
func (d *Dispatcher) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	domain := extractDomain(req.URL)

	if d.memory != nil {
		if remembered := d.memory.Get(domain); remembered != "" {
			for _, eng := range d.engines {
				if eng.Name() != remembered {
					continue
				}
				slog.Debug("domain memory hit", "domain", domain, "engine", remembered)
				result, err := eng.Fetch(ctx, req)
				if err == nil {
					return result, nil
				}
				slog.Info("domain memory miss (engine failed), running full race",
					"domain", domain, "engine", remembered, "error", err)
				d.memory.Delete(domain)
				break
			}
		}
	}

	return d.race(ctx, req, domain)
}

// race runs all engines with staged delays and returns the first success.
func (d *Dispatcher) race(ctx context.Context, req *FetchRequest, domain string) (*FetchResult, error) {
	type raceResult struct {
		tier   int
		result *FetchResult
		err    error
	}

	raceCtx, raceCancel := context.WithCancel(ctx)
	defer raceCancel()

	results := make(chan raceResult, len(d.engines))
	var wg sync.WaitGroup

	for i, eng := range d.engines {
		wg.Add(1)
		go func(tier int, e Engine, delay time.Duration) {
			defer wg.Done()

			if delay > 0 {
				timer := time.NewTimer(delay)
				defer timer.Stop()
				select {
				case <-raceCtx.Done():
					return
				case <-timer.C:
				}
			}

			select {
			case <-raceCtx.Done():
				return
			default:
			}

			slog.Debug("engine starting", "engine", e.Name(), "url", req.URL)
			result, err := e.Fetch(raceCtx, req)
			if err != nil {
				slog.Debug("engine failed", "engine", e.Name(), "url", req.URL, "error", err)
			}
			results <- raceResult{tier: tier, result: result, err: err}
		}(i, eng, d.escalationDelays[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	firstTier := len(d.engines)
	for rr := range results {
		if rr.err != nil {
			if rr.tier < firstTier {
				firstErr, firstTier = rr.err, rr.tier
			}
			continue
		}
		raceCancel()
		slog.Info("engine won race", "engine", rr.result.EngineName, "url", req.URL)
		if d.memory != nil {
			d.memory.Set(domain, rr.result.EngineName)
		}
		return rr.result, nil
	}

	if firstErr == nil {
		if err := ctx.Err(); err != nil {
			return nil, classifyError(err, "fetch aborted")
		}
		firstErr = fmt.Errorf("dispatcher: all engines failed for %s", req.URL)
	}
	return nil, firstErr
}

// extractDomain parses the hostname from a URL string.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
