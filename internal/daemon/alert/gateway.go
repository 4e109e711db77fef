// Package alert delivers user-facing messages through desktop notifications.
package alert

import (
	"sync"
	"sync/atomic"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

const (
	// DefaultTitle is used when Notify is called without a title.
	DefaultTitle = "Sunshine Alert"

	// AppName groups the agent's notifications in the notification center.
	AppName = "Sunshine"
)

// DeliverFunc shows one message. beeep.Notify and beeep.Alert both fit.
type DeliverFunc func(title, message string, icon any) error

// Options configures a Gateway.
type Options struct {
	// Granted selects notifications over alert dialogs.
	Granted bool
	Logger  *zap.Logger

	// Notify and Alert default to the beeep implementations.
	Notify DeliverFunc
	Alert  DeliverFunc
}

// Gateway routes alerts to the notification center, or to an alert dialog
// when notifications were not granted. Once SetQuitting is called every
// message is dropped.
type Gateway struct {
	notify DeliverFunc
	alert  DeliverFunc
	logger *zap.Logger

	granted bool

	mu       sync.Mutex // serializes delivery
	quitting atomic.Bool
}

// New creates a Gateway.
func New(opts Options) *Gateway {
	g := &Gateway{
		notify:  opts.Notify,
		alert:   opts.Alert,
		logger:  opts.Logger,
		granted: opts.Granted,
	}
	if g.notify == nil {
		beeep.AppName = AppName
		g.notify = beeep.Notify
	}
	if g.alert == nil {
		g.alert = beeep.Alert
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// Notify shows message with title. Delivery errors are logged only.
func (g *Gateway) Notify(message, title string) {
	if g.quitting.Load() {
		g.logger.Debug("alert dropped while quitting", zap.String("message", message))
		return
	}
	if title == "" {
		title = DefaultTitle
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	deliver, via := g.alert, "alert"
	if g.granted {
		deliver, via = g.notify, "notification"
	}
	if err := deliver(title, message, ""); err != nil {
		g.logger.Warn("failed to deliver alert",
			zap.String("via", via),
			zap.String("title", title),
			zap.String("message", message),
			zap.Error(err),
		)
		return
	}
	g.logger.Info("alert delivered", zap.String("via", via), zap.String("title", title), zap.String("message", message))
}

// SetQuitting latches the quitting flag. It cannot be cleared.
func (g *Gateway) SetQuitting() {
	g.quitting.Store(true)
}

// Quitting reports whether SetQuitting has been called.
func (g *Gateway) Quitting() bool {
	return g.quitting.Load()
}
