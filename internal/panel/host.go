package panel

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/chronos/internal/domain"
	"github.com/MrSnakeDoc/chronos/internal/index"
	"github.com/MrSnakeDoc/chronos/internal/logger"
)

const mirrorTimeout = 2 * time.Second

// ResourceMirror is an external copy of the resource list (Redis).
type ResourceMirror interface {
	SaveResource(ctx context.Context, r *domain.Resource) error
	DeleteResource(ctx context.Context, id string) error
}

// Host owns the resource collection and provides the panel callbacks.
// Mirror writes are best effort: the in-memory list is authoritative.
type Host struct {
	list   *index.ResourceList
	mirror ResourceMirror
	logger logger.Logger
}

// NewHost creates a host around list. mirror may be nil.
func NewHost(list *index.ResourceList, mirror ResourceMirror, log logger.Logger) *Host {
	return &Host{
		list:   list,
		mirror: mirror,
		logger: log,
	}
}

// Insert appends r to the list and mirrors it.
func (h *Host) Insert(r domain.Resource) {
	h.list.Append(r)
	h.logger.Info("resource added",
		logger.String("id", r.ID),
		logger.String("url", r.URL))

	if h.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := h.mirror.SaveResource(ctx, &r); err != nil {
		h.logger.Warn("failed to mirror resource to redis",
			logger.String("id", r.ID),
			logger.Error(err))
	}
}

// Delete removes id from the list and the mirror. Unknown ids are ignored.
func (h *Host) Delete(id string) {
	if !h.list.Remove(id) {
		h.logger.Debug("remove of unknown resource ignored", logger.String("id", id))
		return
	}
	h.logger.Info("resource removed", logger.String("id", id))

	if h.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := h.mirror.DeleteResource(ctx, id); err != nil {
		h.logger.Warn("failed to delete mirrored resource",
			logger.String("id", id),
			logger.Error(err))
	}
}

// Panel returns a panel bound to this host's callbacks.
func (h *Host) Panel(opts ...Option) *Panel {
	return New(h.Insert, h.Delete, opts...)
}

// List exposes the owned collection for read access.
func (h *Host) List() *index.ResourceList {
	return h.list
}
