// Crosswind is a campaign performance automation service for paid
// advertising accounts.
//
// It collects campaign metrics from advertising platforms on a schedule,
// providing:
//   - Alerting on budget burn and return-on-ad-spend
//   - Model-assisted performance insights and ad copy generation
//   - Bid adjustment and budget reallocation recommendations
//   - A growing library of high-performing ad creative
//   - HTML and JSON performance reports
//
// Usage:
//
//	# Start the service with default configuration
//	crosswind run
//
//	# Start with custom configuration file
//	crosswind run --config /path/to/config.yaml
//
//	# Run the pipeline once and exit
//	crosswind pipeline --dry-run
//
//	# Validate a configuration file
//	crosswind validate --config /path/to/config.yaml
//
//	# Show version information
//	crosswind version
package main

func main() {
	Execute()
}
