// Package notify delivers offline alerts to departments that have no live realtime connection.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/presence"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
)

const (
	ChannelPush     = "push"
	ChannelWhatsApp = "whatsapp"
)

var (
	ErrQueueFull        = errors.New("notification queue is full")
	ErrDispatcherClosed = errors.New("notification dispatcher is closed")
	// ErrSubscriptionGone means the push provider no longer knows the subscription.
	ErrSubscriptionGone = errors.New("push subscription is gone")
)

// SubscriptionStore is the part of the subscription repository the dispatcher needs.
type SubscriptionStore interface {
	ListSubscriptionsByDepartment(ctx context.Context, department string) ([]models.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// PhoneDirectory resolves the WhatsApp recipients of a department.
type PhoneDirectory interface {
	ListPhonesByDepartment(ctx context.Context, department string) ([]string, error)
}

// PushSender sends one encrypted web push message to a serialized browser subscription.
type PushSender interface {
	Send(ctx context.Context, subscription string, payload []byte) error
}

// MessageSender sends one text message to a phone number.
type MessageSender interface {
	Send(ctx context.Context, phone, text string) error
}

type Options struct {
	Workers             int
	QueueSize           int
	DeliveryConcurrency int
	DeliveryTimeout     time.Duration
}

// Report summarizes one delivery job.
type Report struct {
	Skipped  bool
	Attempts int
	Failures int
	Pruned   int
}

type Dispatcher struct {
	log      *slog.Logger
	presence presence.Tracker
	subs     SubscriptionStore
	metrics  *metrics.Metrics
	opts     Options

	push     PushSender
	phones   PhoneDirectory
	whatsapp MessageSender

	queue   chan models.Notification
	workers conc.WaitGroup
	mu      sync.RWMutex
	closed  bool
	started bool
}

func NewDispatcher(
	log *slog.Logger,
	tracker presence.Tracker,
	subs SubscriptionStore,
	metrics *metrics.Metrics,
	opts Options,
) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.DeliveryConcurrency <= 0 {
		opts.DeliveryConcurrency = 1
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = 30 * time.Second
	}

	return &Dispatcher{
		log:      log,
		presence: tracker,
		subs:     subs,
		metrics:  metrics,
		opts:     opts,
		queue:    make(chan models.Notification, opts.QueueSize),
	}
}

// WithPush enables the web push channel. Must be called before Start.
func (d *Dispatcher) WithPush(sender PushSender) *Dispatcher {
	d.push = sender
	return d
}

// WithWhatsApp enables the WhatsApp channel. Must be called before Start.
func (d *Dispatcher) WithWhatsApp(phones PhoneDirectory, sender MessageSender) *Dispatcher {
	d.phones = phones
	d.whatsapp = sender
	return d
}

func (d *Dispatcher) initLogger(opn string) *slog.Logger {
	return d.log.With(
		slog.String("op", opn),
		slog.String("division", "notify"),
	)
}

// Start launches the queue consumers. Calling it twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	for range d.opts.Workers {
		d.workers.Go(d.consume)
	}
}

// Enqueue hands a notification to the workers without blocking.
func (d *Dispatcher) Enqueue(n models.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.reject()
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- n:
		d.reportDepth()
		return nil
	default:
		d.reject()
		return ErrQueueFull
	}
}

// Close stops accepting work and waits until every queued notification was processed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		// nobody consumes the queue, drain it inline
		d.consume()
		return
	}

	d.workers.Wait()
}

func (d *Dispatcher) consume() {
	log := d.initLogger("Dispatcher.consume")

	for n := range d.queue {
		d.reportDepth()

		ctx, cancel := context.WithTimeout(context.Background(), d.opts.DeliveryTimeout)
		report, err := d.Notify(ctx, n)
		cancel()

		if err != nil {
			log.Error("notification delivery failed",
				sl.Department(n.Department), "title", n.Title, sl.Err(err))
			continue
		}

		if !report.Skipped {
			log.Info("notification delivered",
				sl.Department(n.Department),
				"attempts", report.Attempts,
				"failures", report.Failures,
				"pruned", report.Pruned)
		}
	}
}

// Notify delivers n to every registered recipient of its department, unless
// the department is online at this moment. One failing recipient never stops
// delivery to the others.
func (d *Dispatcher) Notify(ctx context.Context, n models.Notification) (Report, error) {
	log := d.initLogger("Dispatcher.Notify")

	if d.presence.IsOnline(n.Department) {
		log.DebugContext(ctx, "department is online, skipping notification", sl.Department(n.Department))
		return Report{Skipped: true}, nil
	}

	var (
		report Report
		errs   []error
	)

	if d.push != nil {
		pushed, err := d.deliverPush(ctx, n)
		report = report.merge(pushed)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if d.whatsapp != nil && d.phones != nil {
		sent, err := d.deliverWhatsApp(ctx, n)
		report = report.merge(sent)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return report, errors.Join(errs...)
}

func (d *Dispatcher) deliverPush(ctx context.Context, n models.Notification) (Report, error) {
	log := d.initLogger("Dispatcher.deliverPush")

	subs, err := d.subs.ListSubscriptionsByDepartment(ctx, n.Department)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load push subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return Report{}, nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return Report{}, fmt.Errorf("failed to encode push payload: %w", err)
	}

	var failures, pruned atomic.Int64

	p := pool.New().WithMaxGoroutines(d.opts.DeliveryConcurrency)
	for _, sub := range subs {
		p.Go(func() {
			sendErr := d.push.Send(ctx, sub.Payload, payload)
			switch {
			case sendErr == nil:
				d.count(ChannelPush, "success")
			case errors.Is(sendErr, ErrSubscriptionGone):
				d.count(ChannelPush, "gone")
				if delErr := d.subs.DeleteSubscription(ctx, sub.Endpoint); delErr != nil {
					log.WarnContext(ctx, "failed to prune push subscription",
						"endpoint", sub.Endpoint, sl.Err(delErr))
					return
				}
				pruned.Add(1)
				if d.metrics != nil {
					d.metrics.SubscriptionsPruned.Inc()
				}
			default:
				failures.Add(1)
				d.count(ChannelPush, "failure")
				log.WarnContext(ctx, "push delivery failed", "endpoint", sub.Endpoint, sl.Err(sendErr))
			}
		})
	}
	p.Wait()

	return Report{
		Attempts: len(subs),
		Failures: int(failures.Load()),
		Pruned:   int(pruned.Load()),
	}, nil
}

func (d *Dispatcher) deliverWhatsApp(ctx context.Context, n models.Notification) (Report, error) {
	log := d.initLogger("Dispatcher.deliverWhatsApp")

	phones, err := d.phones.ListPhonesByDepartment(ctx, n.Department)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load department phones: %w", err)
	}

	text := n.Title
	if n.Body != "" {
		text = n.Title + "\n" + n.Body
	}

	var failures atomic.Int64

	p := pool.New().WithMaxGoroutines(d.opts.DeliveryConcurrency)
	for _, phone := range phones {
		p.Go(func() {
			if sendErr := d.whatsapp.Send(ctx, phone, text); sendErr != nil {
				failures.Add(1)
				d.count(ChannelWhatsApp, "failure")
				log.WarnContext(ctx, "whatsapp delivery failed", "phone", phone, sl.Err(sendErr))
				return
			}
			d.count(ChannelWhatsApp, "success")
		})
	}
	p.Wait()

	return Report{Attempts: len(phones), Failures: int(failures.Load())}, nil
}

func (r Report) merge(other Report) Report {
	return Report{
		Skipped:  r.Skipped || other.Skipped,
		Attempts: r.Attempts + other.Attempts,
		Failures: r.Failures + other.Failures,
		Pruned:   r.Pruned + other.Pruned,
	}
}

func (d *Dispatcher) count(channel, result string) {
	if d.metrics != nil {
		d.metrics.NotificationsSent.WithLabelValues(channel, result).Inc()
	}
}

func (d *Dispatcher) reject() {
	if d.metrics != nil {
		d.metrics.DispatchRejected.Inc()
	}
}

func (d *Dispatcher) reportDepth() {
	if d.metrics != nil {
		d.metrics.DispatchQueueDepth.Set(float64(len(d.queue)))
	}
}

// Status backs the health endpoint. A closed dispatcher is an error; a full
// queue is normal backpressure and is reported as "saturated".
func (d *Dispatcher) Status(_ context.Context) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return "", ErrDispatcherClosed
	}
	if len(d.queue) == cap(d.queue) {
		return "saturated", nil
	}

	return "ok", nil
}
