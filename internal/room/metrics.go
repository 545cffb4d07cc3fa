package room

import "expvar"

var (
	metricRoomsActive       = expvar.NewInt("rooms_active")
	metricRoomsCreatedTotal = expvar.NewInt("rooms_created_total")
	metricConnectionsActive = expvar.NewInt("room_connections_active")
	metricWatchersActive    = expvar.NewInt("room_watchers_active")

	metricCommandsTotal    = expvar.NewInt("room_commands_total")
	metricCommandsRejected = expvar.NewInt("room_commands_rejected_total")
	metricBetErrorsTotal   = expvar.NewInt("room_bet_errors_total")
	metricOutcomesTotal    = expvar.NewInt("room_outcomes_total")
	metricSlowConnClosed   = expvar.NewInt("room_slow_connections_closed_total")
)
