package celestial

import (
	"log/slog"
	"sync/atomic"
)

// noSelection marks an empty pending slot.
const noSelection = -1

// Composer owns the object currently on screen. Select may be called from
// any goroutine; the switch happens on the next Advance so only the render
// loop ever touches scene state.
type Composer struct {
	env     Env
	pending atomic.Int32
	current Selection
	object  Object

	// build constructs objects; replaced in tests.
	build func(Kind, Env) (Object, error)
}

// NewComposer creates a composer that shows initial after the first Advance.
func NewComposer(env Env, initial Selection) *Composer {
	c := &Composer{env: env, current: SelectHouse, build: New}
	c.pending.Store(int32(initial))
	return c
}

// Select requests a different object. The last request before the next
// Advance wins.
func (c *Composer) Select(s Selection) {
	c.pending.Store(int32(s))
}

// Selection returns the selection currently applied.
func (c *Composer) Selection() Selection {
	return c.current
}

// Current returns the object on screen, or nil for house.
func (c *Composer) Current() Object {
	return c.object
}

// Apply builds the pending selection, if any. Advance calls it first; hosts
// that time the switch separately may call it on their own.
func (c *Composer) Apply() error {
	if p := c.pending.Swap(noSelection); p != noSelection {
		return c.apply(Selection(p))
	}
	return nil
}

// Advance applies any pending selection and then animates the current object.
func (c *Composer) Advance(t float64) error {
	if err := c.Apply(); err != nil {
		return err
	}
	if c.object != nil {
		c.object.Advance(t)
	}
	return nil
}

func (c *Composer) apply(s Selection) error {
	if _, ok := s.Kind(); !ok && s != SelectHouse {
		slog.Warn("unknown_selection", "selection", int32(s))
		s = SelectHouse
	}
	if s == c.current && (c.object != nil || s == SelectHouse) {
		return nil
	}
	c.releaseCurrent()
	c.current = s

	kind, ok := s.Kind()
	if !ok {
		return nil
	}
	obj, err := c.build(kind, c.env)
	if err != nil {
		c.current = SelectHouse
		return err
	}
	if l, ok := obj.(Lensed); ok {
		l.Lensing().Start()
	}
	c.object = obj

	g := obj.Graph()
	slog.Info("celestial_object_built",
		"selection", s.String(),
		"nodes", g.Len(),
		"particles", g.PointCount(),
	)
	return nil
}

func (c *Composer) releaseCurrent() {
	if c.object == nil {
		return
	}
	slog.Info("celestial_object_released", "kind", c.object.Kind().String())
	c.object.Release()
	c.object = nil
}

// Release frees the current object. The composer shows house afterwards
// until another selection is made.
func (c *Composer) Release() {
	c.pending.Store(noSelection)
	c.releaseCurrent()
	c.current = SelectHouse
}
