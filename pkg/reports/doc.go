// Package reports turns a period's metrics, insights, and optimization
// output into stakeholder-facing artifacts: a self-contained HTML
// report rendered from an embedded template and a JSON summary for API
// consumption, both written to the configured output directory.
package reports
