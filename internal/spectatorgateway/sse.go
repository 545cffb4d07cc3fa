package spectatorgateway

import (
	"fmt"
	"net/http"
)

// setSSEHeaders applies headers that keep event streams stable across proxies.
func setSSEHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set("X-Content-Type-Options", "nosniff")
}

func writeSSE(w http.ResponseWriter, id uint64, event string, data []byte) error {
	if len(data) == 0 {
		data = []byte("{}")
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, event, data); err != nil {
		return err
	}
	return nil
}
