package api

import (
	"net/http"
	"runtime"
	"time"
)

// Metrics is the GET /metrics body: a point-in-time view of the hub.
type Metrics struct {
	Version    string         `json:"version"`
	Uptime     string         `json:"uptime"`
	Handlers   HandlerMetrics `json:"handlers"`
	Extensions []string       `json:"extensions"`
	MQTT       *MQTTMetrics   `json:"mqtt,omitempty"`
	Runtime    RuntimeMetrics `json:"runtime"`
}

// HandlerMetrics counts live handlers, in total and per kind
// (bridge, lighting, tv, generic).
type HandlerMetrics struct {
	Total  int            `json:"total"`
	ByKind map[string]int `json:"by_kind"`
}

// MQTTMetrics is present only when the broker connection is configured.
type MQTTMetrics struct {
	Connected bool `json:"connected"`
}

// RuntimeMetrics are Go runtime figures.
type RuntimeMetrics struct {
	Goroutines int    `json:"goroutines"`
	HeapBytes  uint64 `json:"heap_bytes"`
	NumGC      uint32 `json:"num_gc"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	stats := s.registry.GetStats()
	byKind := make(map[string]int, len(stats.ByKind))
	for kind, n := range stats.ByKind {
		byKind[string(kind)] = n
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m := Metrics{
		Version:    s.version,
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		Handlers:   HandlerMetrics{Total: stats.Total, ByKind: byKind},
		Extensions: s.console.Names(),
		Runtime: RuntimeMetrics{
			Goroutines: runtime.NumGoroutine(),
			HeapBytes:  mem.HeapAlloc,
			NumGC:      mem.NumGC,
		},
	}
	if s.mqtt != nil {
		m.MQTT = &MQTTMetrics{Connected: s.mqtt.IsConnected()}
	}
	writeJSON(w, http.StatusOK, m)
}
