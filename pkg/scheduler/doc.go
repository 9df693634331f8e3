// Package scheduler runs the campaign automation jobs on cron
// schedules. Each job is a named function with its own schedule;
// outcomes are logged and recorded as Prometheus metrics.
package scheduler
