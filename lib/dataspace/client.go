package dataspace

import (
	"context"
	"sync"

	"github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/redisds/lib/common"
	"github.com/lni/dragonboat/v4/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var Logger = logger.GetLogger("dataspace")

const tracerName = "github.com/ValentinKolb/redisds/lib/dataspace"

// Client is the context object that owns the server configuration, the dataspace
// registry and the dispatch lock. All operations of one Client are serialized on
// the wire; independent Clients share nothing.
type Client struct {
	mu     sync.RWMutex // guards config
	config *common.ServerConfig

	registry *registry

	// dispatchMu is held for the full command sequence of every operation
	dispatchMu sync.Mutex

	metrics *clientMetrics
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	metricsSet *metrics.Set
	tracer     trace.Tracer
}

// WithMetricsSet records the client's metrics in the given set instead of a private one.
func WithMetricsSet(set *metrics.Set) Option {
	return func(o *clientOptions) {
		o.metricsSet = set
	}
}

// WithTracer sets the tracer used for operation spans. The default is the tracer of
// the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *clientOptions) {
		o.tracer = tracer
	}
}

// New creates a client with no server configured and an empty registry.
func New(opts ...Option) *Client {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return &Client{
		registry: newRegistry(),
		metrics:  newClientMetrics(o.metricsSet),
		tracer:   o.tracer,
	}
}

// --------------------------------------------------------------------------
// Server lifecycle
// --------------------------------------------------------------------------

// OpenServer sets the server configuration. It fails with ErrMissingConfiguration if
// host or port is missing and with ErrAlreadyOpen if a configuration is already set.
// On failure the current configuration is left unchanged.
func (c *Client) OpenServer(config common.ServerConfig) error {
	if !config.Valid() {
		return newError("OpenServer", "", ErrMissingConfiguration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config != nil {
		return newError("OpenServer", "", ErrAlreadyOpen)
	}

	config = config.WithDefaults()
	c.config = &config
	Logger.Infof("server configured: %s timeout %d ms", config.Addr(), config.TimeoutMs)
	return nil
}

// CloseServer tears down every dataspace's connection, empties the registry and
// clears the server configuration. Calling it on a closed client is a no-op.
func (c *Client) CloseServer() {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	dataspaces := c.registry.drain()
	for _, ds := range dataspaces {
		ds.link.Close()
		ds.link = nil
	}

	c.mu.Lock()
	c.config = nil
	c.mu.Unlock()

	Logger.Infof("server closed, %d dataspaces released", len(dataspaces))
}

// Config returns a copy of the current configuration.
func (c *Client) Config() (common.ServerConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.config == nil {
		return common.ServerConfig{}, false
	}
	return *c.config, true
}

// --------------------------------------------------------------------------
// Helpers shared by the operations
// --------------------------------------------------------------------------

// lookup resolves a dataspace for an operation.
func (c *Client) lookup(op, name string) (*Dataspace, error) {
	ds, ok := c.registry.lookup(name)
	if !ok {
		return nil, newError(op, name, ErrDataspaceNotFound)
	}
	return ds, nil
}

// startSpan opens the span of a public operation.
func (c *Client) startSpan(op string, ds *Dataspace, key string) trace.Span {
	_, span := c.tracer.Start(context.Background(), "redisds."+op, trace.WithAttributes(
		attribute.String("redisds.dataspace", ds.Name),
		attribute.Int("redisds.database", ds.Database),
		attribute.String("redisds.key", key),
	))
	return span
}

// endSpan finishes a span, marking it failed when ok is false.
func endSpan(span trace.Span, ok bool) {
	if !ok {
		span.SetStatus(codes.Error, "store unreachable or unexpected reply")
	}
	span.End()
}
