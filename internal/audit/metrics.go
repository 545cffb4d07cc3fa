package audit

import "expvar"

var (
	metricAuditQueueLen     = expvar.NewInt("audit_queue_len")
	metricAuditDroppedTotal = expvar.NewInt("audit_dropped_total")
	metricAuditWrittenTotal = expvar.NewInt("audit_written_total")
	metricAuditFailedTotal  = expvar.NewInt("audit_failed_total")
)
