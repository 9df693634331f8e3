// Package collector gathers campaign metrics from advertising platforms
// and persists them to the metrics store.
//
// A Collector fans over a set of PlatformSource implementations, one per
// platform. Sources are independent: a platform API being down or
// returning garbage is logged and skipped, and the remaining platforms
// still land their data. Only when every source fails does CollectAll
// return an error.
//
// The package ships a MockSource backed by internal/mockdata for
// development and dry runs. Real platform connectors implement
// PlatformSource and are registered the same way.
package collector
