// Package pipeline orchestrates the campaign automation flow across
// the service's components: metric collection, alert checks, insight
// generation, bid and budget optimization, ad library curation, and
// report output. The HTTP handlers, the scheduler and the one-shot CLI
// command all drive the same Pipeline.
package pipeline
