// Package core implements the IPTS processing pipeline orchestrator: it
// wires the report parser, contact finder, DFT stylus estimator and
// rejection cone together and exposes the result through a small set of
// function-valued sinks.
package core

import (
	"github.com/linux-surface/iptsd/internal/cone"
	"github.com/linux-surface/iptsd/internal/contacts"
	"github.com/linux-surface/iptsd/internal/dft"
	"github.com/linux-surface/iptsd/internal/ipts"
)

// Application is the heart of the daemon. It owns one Parser, one
// contact Finder, one DFT Estimator, one Cone, and the scratch heatmap
// and contact buffers they share; none of that state is safe to touch
// concurrently with a Process call.
//
// The original implementation structures this as a base class with
// virtual on_contacts/on_stylus/on_start/on_stop hooks that a subclass
// overrides. Here that's flattened into a struct of function-valued
// sinks — composition over inheritance — left nil to do nothing.
type Application struct {
	Config   Config
	Info     ipts.DeviceInfo
	Metadata *ipts.Metadata

	// OnData replaces the parsing step entirely when set; it defaults to
	// the parser's Parse method.
	OnData func(data []byte) error

	// OnContacts is called once per heatmap frame with the frame's
	// contacts, after the palm-rejection pass. The slice is the
	// Application's own contact state, which the next frame's Find reads
	// as its previous tracking state. Its backing array is not reused:
	// Find allocates a new slice every frame.
	OnContacts func(contacts []contacts.Contact)

	// OnStylus is called once per stylus sample, whether it came from a
	// legacy stylus report or was synthesized from a DFT window.
	OnStylus func(stylus ipts.StylusData)

	OnStart func()
	OnStop  func()

	parser   *ipts.Parser
	heatmap  contacts.Heatmap
	finder   *contacts.Finder
	contacts []contacts.Contact
	dft      *dft.Estimator
	cone     *cone.Cone
	clock    Clock
}

// New builds an Application from cfg, the device identity info, and the
// device's optional metadata (nil if the device doesn't report any). It
// fails with a *ConfigError if the screen size is unset.
func New(cfg Config, info ipts.DeviceInfo, metadata *ipts.Metadata, clock Clock) (*Application, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if clock == nil {
		clock = SystemClock{}
	}

	app := &Application{
		Config:   cfg,
		Info:     info,
		Metadata: metadata,
		finder:   contacts.NewFinder(cfg.Contacts),
		dft:      dft.NewEstimator(cfg.Dft),
		cone:     cone.New(cfg.coneConfig()),
		clock:    clock,
	}

	if metadata != nil {
		app.dft.SetTransform(metadata.Transform)
	}

	app.parser = &ipts.Parser{
		OnHeatmap: app.processHeatmap,
		OnStylus:  app.processStylus,
		OnDft:     app.processDft,
	}
	app.OnData = app.parser.Parse

	return app, nil
}

// Process parses and processes one IPTS data buffer, dispatching to
// OnContacts and OnStylus as frames are decoded from it.
func (a *Application) Process(data []byte) error {
	return a.OnData(data)
}

// Start runs OnStart, if set. Called by the application runner once
// input processing begins.
func (a *Application) Start() {
	if a.OnStart != nil {
		a.OnStart()
	}
}

// Stop runs OnStop, if set. Called by the application runner once input
// processing ends.
func (a *Application) Stop() {
	if a.OnStop != nil {
		a.OnStop()
	}
}

// processHeatmap normalizes an incoming heatmap, runs the contact
// finder, applies the palm-rejection pass, and delivers the result.
func (a *Application) processHeatmap(frame ipts.Heatmap) {
	a.heatmap.Normalize(frame)
	a.finder.Find(&a.heatmap, &a.contacts)

	a.updateTouchCone()

	if a.OnContacts != nil {
		a.OnContacts(a.contacts)
	}
}

// processStylus scales a raw stylus sample into physical coordinates,
// updates the rejection cone's position, and delivers the sample.
func (a *Application) processStylus(data ipts.StylusData) {
	x := float64(data.X) / ipts.MaxX * a.Config.Width
	y := float64(data.Y) / ipts.MaxY * a.Config.Height

	a.cone.UpdatePosition(x, y, a.clock.Now())

	if a.OnStylus != nil {
		a.OnStylus(data)
	}
}

// processDft feeds a DFT window into the stylus estimator and routes the
// resulting pose through the same path as a legacy stylus sample.
func (a *Application) processDft(window ipts.DftWindow) {
	a.dft.Input(window)
	a.processStylus(a.dft.GetStylus())
}

// updateTouchCone runs the two-pass palm-rejection sweep over the
// current frame's contacts: pass 1 feeds every already-rejected
// contact's position into the cone's direction smoothing, then pass 2
// resolves the validity of every contact the finder left undecided (or
// marked finger) against the cone.
func (a *Application) updateTouchCone() {
	if !a.cone.Alive() {
		return
	}
	if !a.cone.Active(a.clock.Now()) {
		return
	}
	if !a.Config.TouchCheckCone {
		return
	}

	now := a.clock.Now()

	for _, c := range a.contacts {
		if c.Valid == nil || *c.Valid {
			continue
		}
		x := c.Center.X * a.Config.Width
		y := c.Center.Y * a.Config.Height
		a.cone.UpdateDirection(x, y, now)
	}

	for i, c := range a.contacts {
		if c.Valid != nil && !*c.Valid {
			continue
		}
		x := c.Center.X * a.Config.Width
		y := c.Center.Y * a.Config.Height
		accept := a.cone.Check(x, y, now)
		a.contacts[i].Valid = &accept
	}
}
