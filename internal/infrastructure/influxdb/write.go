package influxdb

import (
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementDispatch  = "console_dispatch"
	MeasurementLifecycle = "thing_lifecycle"
)

// WriteDispatch records one console dispatch. code is "ok" on success or
// the failure code.
//
//	client.WriteDispatch("lgwebos", "channels", "ok", 3*time.Millisecond)
func (c *Client) WriteDispatch(extension, command, code string, d time.Duration) {
	c.write(influxdb2.NewPointWithMeasurement(MeasurementDispatch).
		AddTag("extension", extension).
		AddTag("command", command).
		AddTag("code", code).
		AddField("count", 1).
		AddField("duration_ms", float64(d.Microseconds())/1000)) //nolint:mnd // µs to ms
}

// WriteLifecycle records an add, remove or reject for a thing type. The
// UID is not a tag so series cardinality stays bounded by the number of
// thing types.
func (c *Client) WriteLifecycle(action, thingType string) {
	c.write(influxdb2.NewPointWithMeasurement(MeasurementLifecycle).
		AddTag("action", action).
		AddTag("type", thingType).
		AddField("count", 1))
}

func (c *Client) write(p *write.Point) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(p.SetTime(time.Now()))
}
