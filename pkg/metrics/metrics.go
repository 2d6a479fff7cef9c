// Package metrics defines the counter client used to account for
// device property operations, backed by OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type (
	Client interface {
		Inc(ctx context.Context, key string, value int64, attributes ...attribute.KeyValue)
		Shutdown(ctx context.Context) error
	}

	// Descriptor defines metadata used when registering OTEL instruments.
	Descriptor struct {
		Description string
		Unit        string
	}

	// OTELClient lazily registers one Int64 counter per key on the
	// provided meter.
	OTELClient struct {
		meter metric.Meter

		mu       sync.Mutex
		counters map[string]metric.Int64Counter
	}
)

// Instrument keys incremented by the camera controller.
const (
	KeyPropertyReads   = "uvcctl.property.reads"
	KeyPropertyWrites  = "uvcctl.property.writes"
	KeyPropertyErrors  = "uvcctl.property.errors"
	KeyPresetsApplied  = "uvcctl.presets.applied"
	KeyVendorTransfers = "uvcctl.vendor.transfers"
)

var descriptors = map[string]Descriptor{
	KeyPropertyReads:   {Description: "Property read operations", Unit: "{operation}"},
	KeyPropertyWrites:  {Description: "Property write operations", Unit: "{operation}"},
	KeyPropertyErrors:  {Description: "Failed property operations", Unit: "{operation}"},
	KeyPresetsApplied:  {Description: "Preset applications", Unit: "{operation}"},
	KeyVendorTransfers: {Description: "Vendor property transfers", Unit: "{operation}"},
}

func NewOTELClient(meter metric.Meter) *OTELClient {
	return &OTELClient{
		meter:    meter,
		counters: make(map[string]metric.Int64Counter),
	}
}

func (c *OTELClient) Inc(ctx context.Context, key string, value int64, attributes ...attribute.KeyValue) {
	counter, err := c.counter(key)
	if err != nil {
		return
	}

	counter.Add(ctx, value, metric.WithAttributes(attributes...))
}

func (c *OTELClient) Shutdown(_ context.Context) error {
	return nil
}

func (c *OTELClient) counter(key string) (metric.Int64Counter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[key]; ok {
		return counter, nil
	}

	counter, err := RegisterInt64Counter(c.meter, descriptors[key], key)
	if err != nil {
		return nil, err
	}

	c.counters[key] = counter

	return counter, nil
}

// RegisterInt64Counter creates an Int64 counter using the provided descriptor.
func RegisterInt64Counter(m metric.Meter, descriptor Descriptor, name string) (metric.Int64Counter, error) {
	counter, err := m.Int64Counter(
		name,
		metric.WithDescription(descriptor.Description),
		metric.WithUnit(descriptor.Unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", name, err)
	}

	return counter, nil
}
