// Package insights aggregates campaign metrics and generates
// performance insight reports.
//
// Analyze reduces a metric window to Statistics: totals, averages and a
// per-platform breakdown. Agent then produces a Report from those
// statistics, preferring the generative endpoint (metered as component
// insight_agent) and falling back to template heuristics when the
// endpoint is unconfigured, unreachable, or returns output that does
// not parse. The fallback is total: AnalyzePerformance always returns a
// usable report.
package insights
