// Package binding attaches mirror collections to host objects.
//
// A Binder plays the role of an attachable property: each host has a public
// mirror value and a private Manager that the Binder creates on the first
// successful attachment and keeps for as long as the host is known.
package binding

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/jask/selsync/internal/collection"
	"github.com/jask/selsync/internal/selsync"
)

type attachment[T comparable] struct {
	mirror  *collection.List[T]
	manager *selsync.Manager[T]
}

// Binder is an association table from host identity to its mirror binding.
// It is not safe for concurrent use.
type Binder[T comparable] struct {
	resolve selsync.Resolver[T]
	opts    []selsync.Option
	log     *slog.Logger
	hosts   map[any]*attachment[T]
}

// New returns an empty binder. A nil resolver means selsync.SelectionResolver.
func New[T comparable](resolve selsync.Resolver[T], log *slog.Logger) *Binder[T] {
	if resolve == nil {
		resolve = selsync.SelectionResolver[T]()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Binder[T]{
		resolve: resolve,
		opts:    []selsync.Option{selsync.WithLogger(log)},
		log:     log,
		hosts:   make(map[any]*attachment[T]),
	}
}

// SetMirror binds mirror to host. The previous mirror, if any, is detached
// first. A nil mirror only detaches. When the attach fails the mirror is not
// stored and the error is returned.
func (b *Binder[T]) SetMirror(host any, mirror *collection.List[T]) error {
	if err := checkHost(host); err != nil {
		return err
	}

	a := b.hosts[host]
	if a != nil && a.mirror != nil {
		a.manager.Stop()
		a.mirror = nil
		b.log.Debug("mirror detached", "host", fmt.Sprintf("%T", host))
	}
	if mirror == nil {
		return nil
	}

	if a == nil {
		m := selsync.NewManager(host, b.resolve, b.opts...)
		if err := m.Start(mirror); err != nil {
			return err
		}
		b.hosts[host] = &attachment[T]{mirror: mirror, manager: m}
		return nil
	}
	if err := a.manager.Start(mirror); err != nil {
		return err
	}
	a.mirror = mirror
	return nil
}

// Mirror returns the mirror currently bound to host.
func (b *Binder[T]) Mirror(host any) (*collection.List[T], bool) {
	if checkHost(host) != nil {
		return nil, false
	}
	a := b.hosts[host]
	if a == nil || a.mirror == nil {
		return nil, false
	}
	return a.mirror, true
}

// Detach unbinds whatever mirror host has.
func (b *Binder[T]) Detach(host any) error {
	return b.SetMirror(host, nil)
}

// Release detaches host and forgets its manager. Call it when the host goes
// away.
func (b *Binder[T]) Release(host any) {
	if checkHost(host) != nil {
		return
	}
	a := b.hosts[host]
	if a == nil {
		return
	}
	a.manager.Stop()
	delete(b.hosts, host)
}

func (b *Binder[T]) manager(host any) *selsync.Manager[T] {
	if a := b.hosts[host]; a != nil {
		return a.manager
	}
	return nil
}

// checkHost rejects hosts that cannot be used as map keys.
func checkHost(host any) error {
	if host == nil {
		return &selsync.ConfigurationError{Host: "<nil>", Reason: "host is nil"}
	}
	if !reflect.TypeOf(host).Comparable() {
		return &selsync.ConfigurationError{Host: fmt.Sprintf("%T", host), Reason: "host type is not comparable"}
	}
	return nil
}
