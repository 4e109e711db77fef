package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Presenter swaps the status bar icon between running and stopped. It may be
// used before the tray is ready; the last value is applied once it is.
type Presenter struct {
	mu      sync.Mutex
	ready   bool
	running bool
	apply   func(running bool)
}

// NewPresenter creates a Presenter that draws through systray.
func NewPresenter() *Presenter {
	return &Presenter{apply: setIcon}
}

// SetRunning records the run state and updates the icon if the tray is up.
func (p *Presenter) SetRunning(running bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = running
	if p.ready {
		p.apply(running)
	}
}

// Running returns the last recorded run state.
func (p *Presenter) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Presenter) markReady() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = true
	p.apply(p.running)
}

func setIcon(running bool) {
	icon := iconFor(running)
	systray.SetTemplateIcon(icon, icon)
}
