package mqttbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/handlerhub/internal/bindings/lgwebos"
	"github.com/nerrad567/handlerhub/internal/console"
	"github.com/nerrad567/handlerhub/internal/infrastructure/mqtt"
	"github.com/nerrad567/handlerhub/internal/lifecycle"
	"github.com/nerrad567/handlerhub/internal/registry"
	"github.com/nerrad567/handlerhub/internal/thing"
)

const (
	qos = 1

	defaultDispatchTimeout = 10 * time.Second
)

// MQTTClient is the part of the MQTT client the bridge uses.
// *mqtt.Client satisfies it; tests use a fake.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	IsConnected() bool
}

// Extensions resolves console extensions by name. Satisfied by *console.Set.
type Extensions interface {
	Get(name string) (*console.Extension, bool)
}

// Lifecycle applies device lifecycle events. Satisfied by *lifecycle.Manager.
type Lifecycle interface {
	OnDeviceAdded(ctx context.Context, params thing.Params) (thing.UID, error)
	OnDeviceRemoved(ctx context.Context, uid thing.UID) bool
	OnLifecycle(fn func(lifecycle.Event))
}

// Lookup finds handlers by capability. Satisfied by *registry.Registry.
type Lookup interface {
	LookupAs(uid thing.UID, capability thing.Capability) (*registry.Handle, error)
}

// Logger is the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options holds the bridge's collaborators.
type Options struct {
	Client     MQTTClient
	Extensions Extensions
	Lifecycle  Lifecycle
	Registry   Lookup
	Logger     Logger

	// DispatchTimeout bounds one console request. Zero means 10s.
	DispatchTimeout time.Duration
}

// Bridge routes MQTT traffic to the console, the lifecycle manager and
// the webOS TV handlers.
type Bridge struct {
	client     MQTTClient
	extensions Extensions
	lifecycle  Lifecycle
	registry   Lookup
	logger     Logger
	timeout    time.Duration
	topics     mqtt.Topics

	ctx       context.Context
	ctxCancel context.CancelFunc
	wg        sync.WaitGroup

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
}

// New creates a bridge. Call Start to subscribe.
func New(opts Options) (*Bridge, error) {
	if opts.Client == nil {
		return nil, errors.New("mqttbridge: MQTT client is required")
	}
	if opts.Extensions == nil || opts.Lifecycle == nil || opts.Registry == nil {
		return nil, errors.New("mqttbridge: extensions, lifecycle and registry are required")
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.DispatchTimeout <= 0 {
		opts.DispatchTimeout = defaultDispatchTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		client:     opts.Client,
		extensions: opts.Extensions,
		lifecycle:  opts.Lifecycle,
		registry:   opts.Registry,
		logger:     opts.Logger,
		timeout:    opts.DispatchTimeout,
		ctx:        ctx,
		ctxCancel:  cancel,
	}
	b.lifecycle.OnLifecycle(b.publishEvent)
	return b, nil
}

// Start subscribes to the console, lifecycle and TV state topics.
func (b *Bridge) Start() error {
	subs := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{b.topics.AllConsoleRequests(), b.handleConsoleRequest},
		{b.topics.ThingsAdd(), b.handleThingAdd},
		{b.topics.ThingsRemove(), b.handleThingRemove},
		{b.topics.AllTVStates(), b.handleTVState},
	}
	for _, s := range subs {
		if err := b.client.Subscribe(s.topic, qos, s.handler); err != nil {
			return fmt.Errorf("subscribing to %s: %w", s.topic, err)
		}
		b.logger.Debug("subscribed", "topic", s.topic)
	}

	b.mu.Lock()
	b.started = true
	b.mu.Unlock()
	b.logger.Info("mqtt bridge started")
	return nil
}

// Stop unsubscribes, cancels in-flight console requests and waits for them.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		b.mu.Lock()
		b.started = false
		b.mu.Unlock()

		for _, topic := range []string{
			b.topics.AllConsoleRequests(),
			b.topics.ThingsAdd(),
			b.topics.ThingsRemove(),
			b.topics.AllTVStates(),
		} {
			if err := b.client.Unsubscribe(topic); err != nil {
				b.logger.Debug("unsubscribe failed", "topic", topic, "error", err)
			}
		}

		b.ctxCancel()
		b.wg.Wait()
		b.logger.Info("mqtt bridge stopped")
	})
}

func (b *Bridge) running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started
}

// handleConsoleRequest decodes a request and dispatches it asynchronously.
// Requests arriving once Stop has begun are dropped.
func (b *Bridge) handleConsoleRequest(topic string, payload []byte) error {
	if !b.running() {
		return nil
	}
	ext, ok := extensionFromTopic(topic)
	if !ok {
		return fmt.Errorf("%w: unexpected topic %s", ErrInvalidPayload, topic)
	}

	var req ConsoleRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if req.RequestID == "" {
		req.RequestID = "req-" + uuid.NewString()[:8]
	}

	extension, found := b.extensions.Get(ext)
	if !found {
		b.respond(ext, ConsoleResponse{
			RequestID: req.RequestID,
			Error: &ErrorBody{
				Code:    "unknown_extension",
				Message: fmt.Sprintf("No console extension '%s'", ext),
			},
		})
		return nil
	}

	// Add under mu so it cannot race the Wait in Stop.
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return nil
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(thing.WithOrigin(b.ctx, thing.OriginMQTT), b.timeout)
		defer cancel()

		res, err := extension.Dispatch(ctx, req.UID, req.Command, req.Args)
		resp := ConsoleResponse{RequestID: req.RequestID}
		if err != nil {
			resp.Error = errorBody(err)
		} else {
			resp.OK = true
			resp.Lines = res.Lines
		}
		b.respond(ext, resp)
	}()
	return nil
}

func (b *Bridge) respond(ext string, resp ConsoleResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		b.logger.Error("encoding console response", "error", err)
		return
	}
	topic := b.topics.ConsoleResponse(ext, resp.RequestID)
	if err := b.client.Publish(topic, payload, qos, false); err != nil {
		b.logger.Warn("publishing console response", "topic", topic, "error", err)
	}
}

func (b *Bridge) handleThingAdd(_ string, payload []byte) error {
	var params thing.Params
	if err := json.Unmarshal(payload, &params); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	// rejections are published as lifecycle events
	_, _ = b.lifecycle.OnDeviceAdded(thing.WithOrigin(b.ctx, thing.OriginMQTT), params) //nolint:errcheck // reported via OnLifecycle
	return nil
}

func (b *Bridge) handleThingRemove(_ string, payload []byte) error {
	var msg ThingRemove
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	b.lifecycle.OnDeviceRemoved(thing.WithOrigin(b.ctx, thing.OriginMQTT), msg.UID)
	return nil
}

// stateUpdater and keySetter are the webOS TV handler methods reached by
// the state feed.
type stateUpdater interface {
	UpdateState(st lgwebos.State) error
}

type keySetter interface {
	SetKey(key string)
}

func (b *Bridge) handleTVState(topic string, payload []byte) error {
	raw := topic[strings.LastIndex(topic, "/")+1:]
	uid, err := thing.ParseUID(raw)
	if err != nil {
		return fmt.Errorf("state topic %s: %w", topic, err)
	}

	var msg TVState
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	handle, err := b.registry.LookupAs(uid, thing.Reportable)
	if err != nil {
		var lerr *registry.LookupError
		if errors.As(err, &lerr) && lerr.Reason == registry.ReasonNotFound {
			b.logger.Debug("state for unknown thing dropped", "uid", uid)
			return nil
		}
		return err
	}
	defer handle.Release()

	tv, ok := handle.Handler().(stateUpdater)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotTV, uid)
	}
	if err := tv.UpdateState(lgwebos.State{Applications: msg.Applications, Channels: msg.Channels}); err != nil {
		return fmt.Errorf("updating %s: %w", uid, err)
	}
	if msg.Key != "" && handle.Handler().Capabilities().Has(thing.KeyHolder) {
		if ks, ok := handle.Handler().(keySetter); ok {
			ks.SetKey(msg.Key)
		}
	}
	return nil
}

// publishEvent forwards a lifecycle event while the bridge is running.
func (b *Bridge) publishEvent(ev lifecycle.Event) {
	if !b.running() || !b.client.IsConnected() {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("encoding lifecycle event", "error", err)
		return
	}
	if err := b.client.Publish(b.topics.ThingsEvent(), payload, qos, false); err != nil {
		b.logger.Warn("publishing lifecycle event", "uid", ev.UID, "error", err)
	}
}

// extensionFromTopic extracts ext from handlerhub/console/{ext}/request.
func extensionFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != mqtt.TopicPrefix || parts[1] != "console" || parts[3] != "request" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
