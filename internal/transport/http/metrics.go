package httptransport

import "expvar"

var (
	metricRoomListTotal      = expvar.NewInt("http_room_list_total")
	metricOutcomeQueryTotal  = expvar.NewInt("http_outcome_query_total")
	metricOutcomeQueryErrors = expvar.NewInt("http_outcome_query_errors_total")
	metricOutcomeQueryLastMS = expvar.NewInt("http_outcome_query_last_ms")
)
