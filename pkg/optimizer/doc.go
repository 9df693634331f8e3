// Package optimizer computes bid adjustments and budget reallocations
// from campaign performance history.
//
// Bid adjustments combine three signals per campaign: current ROAS
// against the configured target, current CTR against the trailing
// average, and the direction of the ROAS trend over the history window.
// The combined factor is clamped to MaxBidChange and adjustments below
// five percent are suppressed so callers are not flooded with noise.
//
// Budget reallocation scores each campaign by ROAS relative to target,
// weighted by spend volume, and splits the total budget proportionally.
//
// The package is pure recommendation: nothing here writes back to the
// advertising platforms.
package optimizer
