// Package usage provides rate limiting and consumption accounting for
// external generative API calls.
//
// # Overview
//
// The usage package implements a single shared ledger that every
// component calls through before and after talking to the generative
// endpoint. It covers:
//
//   - Rolling one-minute request and token windows
//   - Blocking admission against the request budget
//   - A soft (90%) early-warning wait against the token budget
//   - Per-component attribution of calls, tokens and errors
//   - Spend estimation from per-million token rates
//   - Periodic JSON snapshots of the accounting state
//
// # Architecture
//
// The package is deliberately flat:
//
//   - SlidingWindow: timestamped event list with exact expiry
//   - Ledger: the mutex, both windows, totals and the breakdown
//   - CostModel: pure dollars-from-tokens arithmetic
//   - FilePersister: atomic-enough snapshot writes to one JSON file
//   - Metrics: optional Prometheus instruments
//
// # Usage
//
//	ledger, err := usage.NewLedger(usage.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	ledger.Admit() // blocks until the request budget has room
//	resp, err := client.Generate(ctx, prompt)
//	ledger.Record(usage.ComponentInsightAgent, resp.InputTokens, resp.OutputTokens, err == nil)
//
//	stats := ledger.Stats()
//	fmt.Printf("spent $%.4f over %d calls\n", stats.EstimatedCost, stats.TotalRequests)
//
// # Thread Safety
//
// One mutex guards the whole ledger. Admit, Record and Stats are safe
// to call from any goroutine. Under the default hold-lock wait policy
// an admission that has to wait keeps the mutex for the full wait,
// which also stalls concurrent Record and Stats calls; the release-lock
// policy trades that strict FIFO ordering for liveness.
package usage
