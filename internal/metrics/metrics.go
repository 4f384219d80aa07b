// Package metrics exposes coarse service counters over expvar. The debug
// listener is separate from the public API so it can stay bound to
// localhost.
package metrics

import "expvar"

var (
	TradesExecuted = expvar.NewInt("trades_executed")
	TradesRejected = expvar.NewInt("trades_rejected")
	QuoteRefreshes = expvar.NewInt("quote_refreshes")
	SnapshotSaves  = expvar.NewInt("snapshot_saves")
	SnapshotLoads  = expvar.NewInt("snapshot_loads")
)
