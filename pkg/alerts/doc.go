// Package alerts monitors campaign metrics against thresholds and
// notifies when campaigns cross them.
//
// Two checks run per metric: budget utilization above the configured
// percentage fires a budget alert, ROAS below the configured floor
// fires a performance alert. The Manager dedups notifications by alert
// key over a bounded recently-sent window so a campaign sitting at 95%
// budget does not page on every collection cycle, and keeps a bounded
// history for the HTTP surface.
//
// Delivery goes through the Notifier interface. SlackNotifier posts to
// an incoming webhook; with no notifier configured alerts are logged
// and recorded only.
package alerts
