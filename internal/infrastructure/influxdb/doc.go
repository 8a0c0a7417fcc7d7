// Package influxdb writes handlerhub's operational metrics to InfluxDB v2.
//
// Two measurements are produced:
//   - console_dispatch: one point per console command, tagged by extension,
//     command and result code, with the dispatch duration
//   - thing_lifecycle: one point per device add, remove or rejection,
//     tagged by action and thing type
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    client = nil // writes become no-ops
//	}
//	defer client.Close()
//
//	client.WriteDispatch("openwebnet", "dim", "ok", elapsed)
//
// Writes are non-blocking and batched according to batch_size and
// flush_interval. Async write errors are delivered to the SetOnError
// callback; connection and health check errors are returned directly.
package influxdb
