package selsync

import (
	"errors"
	"log/slog"

	"github.com/jask/selsync/internal/collection"
)

// SelectionHost is implemented by every host kind that exposes a selection
// collection a mirror can be bound to.
type SelectionHost[T comparable] interface {
	SelectedItems() *collection.List[T]
}

// Resolver finds the primary collection of a host.
type Resolver[T comparable] func(host any) (*collection.List[T], error)

// SelectionResolver resolves hosts implementing SelectionHost. Any other host
// kind yields a *ConfigurationError.
func SelectionResolver[T comparable]() Resolver[T] {
	return func(host any) (*collection.List[T], error) {
		h, ok := host.(SelectionHost[T])
		if !ok {
			return nil, &ConfigurationError{Host: hostName(host), Reason: "host has no selection collection to bind"}
		}
		list := h.SelectedItems()
		if list == nil {
			return nil, &ConfigurationError{Host: hostName(host), Reason: "host selection collection is nil"}
		}
		return list, nil
	}
}

// Manager owns the synchronization lifecycle of one host object. It holds at
// most one Synchronizer at a time.
type Manager[T comparable] struct {
	host    any
	resolve Resolver[T]
	opts    []Option
	log     *slog.Logger

	sync *Synchronizer[T]
}

// NewManager returns a manager for host. A nil resolver means
// SelectionResolver.
func NewManager[T comparable](host any, resolve Resolver[T], opts ...Option) *Manager[T] {
	if resolve == nil {
		resolve = SelectionResolver[T]()
	}
	o := buildOptions(opts)
	return &Manager[T]{
		host:    host,
		resolve: resolve,
		opts:    append([]Option{WithName(hostName(host))}, opts...),
		log:     o.logger.With("host", hostName(host)),
	}
}

// Active reports whether a started synchronizer is held.
func (m *Manager[T]) Active() bool {
	return m.sync != nil && m.sync.State() == Active
}

// Synchronizer returns the held synchronizer, or nil.
func (m *Manager[T]) Synchronizer() *Synchronizer[T] { return m.sync }

// Start binds mirror to the host's selection collection. Any previous
// synchronizer is stopped first. A nil mirror is a no-op and leaves the
// current binding in place.
func (m *Manager[T]) Start(mirror *collection.List[T]) error {
	if mirror == nil {
		return nil
	}
	m.Stop()

	primary, err := m.resolve(m.host)
	if err != nil {
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			err = &ConfigurationError{Host: hostName(m.host), Reason: "resolve selection collection", Err: err}
		}
		m.log.Warn("attach rejected", "err", err)
		return err
	}

	s := NewSynchronizer(primary, mirror, m.opts...)
	if err := s.Start(); err != nil {
		s.Stop()
		return err
	}
	m.sync = s
	return nil
}

// Stop stops the held synchronizer, if any. It never fails.
func (m *Manager[T]) Stop() {
	if m.sync == nil {
		return
	}
	m.sync.Stop()
	m.sync = nil
}
