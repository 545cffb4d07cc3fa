package ws

import "expvar"

var (
	metricConnectionsTotal = expvar.NewInt("ws_connections_total")
	metricUpgradeErrors    = expvar.NewInt("ws_upgrade_errors_total")
	metricFramesIn         = expvar.NewInt("ws_frames_in_total")
	metricFramesOut        = expvar.NewInt("ws_frames_out_total")
)
