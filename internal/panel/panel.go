// Package panel implements the session-resource panel operations. The panel
// owns no collection: it builds resources from form input and hands them to
// callbacks supplied by the host.
package panel

import (
	"time"

	"github.com/MrSnakeDoc/chronos/internal/domain"
)

// Panel turns raw form input into resources for the host callbacks.
type Panel struct {
	onAdd    func(domain.Resource)
	onRemove func(id string)
	newID    domain.IDFunc
	now      func() time.Time
}

// Option customises a Panel.
type Option func(*Panel)

// WithIDFunc overrides resource id generation.
func WithIDFunc(f domain.IDFunc) Option {
	return func(p *Panel) { p.newID = f }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) { p.now = now }
}

// New wires a panel to the host's insertion and removal callbacks.
func New(onAdd func(domain.Resource), onRemove func(id string), opts ...Option) *Panel {
	p := &Panel{
		onAdd:    onAdd,
		onRemove: onRemove,
		newID:    domain.NewResourceID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add builds a resource and passes it to the insertion callback. A blank url
// is a no-op reported through ok=false, the same as a disabled submit button.
func (p *Panel) Add(rawURL, rawTitle string) (domain.Resource, bool) {
	r, err := domain.NewResource(rawURL, rawTitle, p.newID, p.now())
	if err != nil {
		return domain.Resource{}, false
	}
	p.onAdd(r)
	return r, true
}

// Remove forwards id to the removal callback.
func (p *Panel) Remove(id string) {
	p.onRemove(id)
}
