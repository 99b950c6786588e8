// Package selsync keeps a host-owned selection collection and an externally
// bound mirror collection equal in content and order.
//
// A Synchronizer owns one (primary, secondary) pair for its whole life. On
// start the secondary content overwrites the primary; afterwards every change
// raised by either list is replayed on the other. A reentrancy flag stops the
// synchronizer from treating its own writes as new input. A Manager owns the
// attach and detach lifecycle of one host object and rebuilds its
// Synchronizer on every re-attachment.
package selsync

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jask/selsync/internal/collection"
)

// State is the lifecycle state of a Synchronizer.
type State int

const (
	Idle State = iota
	Active
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats counts relay activity.
type Stats struct {
	// Relayed is the number of changes replayed on the opposite list.
	Relayed int
	// Suppressed is the number of echoes ignored while relaying.
	Suppressed int
}

// Option configures a Synchronizer or Manager.
type Option func(*options)

type options struct {
	logger *slog.Logger
	name   string
}

// WithLogger sets the logger used for lifecycle and failure messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels log output.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Synchronizer relays changes between a primary and a secondary list.
type Synchronizer[T comparable] struct {
	primary   *collection.List[T]
	secondary *collection.List[T]
	log       *slog.Logger

	state    State
	relaying bool
	stats    Stats

	primarySub   collection.Subscription
	secondarySub collection.Subscription
}

// NewSynchronizer pairs primary with secondary. The pair is fixed for the
// life of the returned value.
func NewSynchronizer[T comparable](primary, secondary *collection.List[T], opts ...Option) *Synchronizer[T] {
	o := buildOptions(opts)
	log := o.logger
	if o.name != "" {
		log = log.With("binding", o.name)
	}
	return &Synchronizer[T]{
		primary:   primary,
		secondary: secondary,
		log:       log,
	}
}

// Primary returns the host-owned list.
func (s *Synchronizer[T]) Primary() *collection.List[T] { return s.primary }

// Secondary returns the mirror list.
func (s *Synchronizer[T]) Secondary() *collection.List[T] { return s.secondary }

// State returns the lifecycle state.
func (s *Synchronizer[T]) State() State { return s.state }

// Stats returns relay counters.
func (s *Synchronizer[T]) Stats() Stats { return s.stats }

// Start copies the secondary content into the primary and subscribes to both
// lists. It may only be called once.
func (s *Synchronizer[T]) Start() error {
	if s.state != Idle {
		return fmt.Errorf("start in state %s: %w", s.state, ErrAlreadyStarted)
	}
	if s.primary == nil || s.secondary == nil {
		return &ConfigurationError{Reason: "synchronizer needs two collections"}
	}
	if s.primary == s.secondary {
		return &ConfigurationError{Reason: "primary and mirror are the same collection"}
	}

	if err := s.reconcile(); err != nil {
		s.log.Error("initial reconciliation failed", "err", err)
		return fmt.Errorf("initial reconciliation: %w", err)
	}

	s.primarySub = s.primary.Subscribe(func(c collection.Change[T]) error {
		return s.relay(s.secondary, c)
	})
	s.secondarySub = s.secondary.Subscribe(func(c collection.Change[T]) error {
		return s.relay(s.primary, c)
	})
	s.state = Active
	s.log.Debug("synchronizer started", "items", s.secondary.Len())
	return nil
}

// Stop unsubscribes from both lists. Calling Stop more than once, or on a
// synchronizer that never started, is a no-op.
func (s *Synchronizer[T]) Stop() {
	if s.state == Stopped {
		return
	}
	if s.state == Active {
		s.primary.Unsubscribe(s.primarySub)
		s.secondary.Unsubscribe(s.secondarySub)
		s.log.Debug("synchronizer stopped", "relayed", s.stats.Relayed, "suppressed", s.stats.Suppressed)
	}
	s.primarySub = collection.Subscription{}
	s.secondarySub = collection.Subscription{}
	s.state = Stopped
}

func (s *Synchronizer[T]) reconcile() error {
	items := s.secondary.Items()
	s.relaying = true
	defer func() { s.relaying = false }()

	if err := s.primary.Clear(); err != nil {
		return err
	}
	for i, item := range items {
		if err := s.primary.Insert(i, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Synchronizer[T]) relay(target *collection.List[T], c collection.Change[T]) error {
	// a subscriber notified earlier for the same change may have stopped us
	if s.state != Active {
		return nil
	}
	if s.relaying {
		s.stats.Suppressed++
		return nil
	}
	s.relaying = true
	defer func() { s.relaying = false }()

	before := target.Version()
	if err := apply(target, c); err != nil {
		if target.Version() != before {
			// applied; the error came from another subscriber of target
			s.stats.Relayed++
			return err
		}
		idx := c.Index
		if c.Kind == collection.Move {
			idx = c.OldIndex
		}
		v := &InvariantViolation{Kind: c.Kind, Index: idx, Err: err}
		s.log.Error("relay failed", "change", c.String(), "err", err)
		return v
	}
	s.stats.Relayed++
	return nil
}

func apply[T comparable](target *collection.List[T], c collection.Change[T]) error {
	switch c.Kind {
	case collection.Insert:
		return target.Insert(c.Index, c.Item)
	case collection.Remove:
		if err := expect(target, c.Index, c.Item); err != nil {
			return err
		}
		return target.RemoveAt(c.Index)
	case collection.Replace:
		if err := expect(target, c.Index, c.OldItem); err != nil {
			return err
		}
		return target.Replace(c.Index, c.Item)
	case collection.Move:
		if err := expect(target, c.OldIndex, c.Item); err != nil {
			return err
		}
		return target.Move(c.OldIndex, c.Index)
	case collection.Reset:
		return target.Reset(c.Items)
	default:
		return fmt.Errorf("unknown change kind %s", c.Kind)
	}
}

// expect checks that target holds want at i before an index based mutation.
func expect[T comparable](target *collection.List[T], i int, want T) error {
	got, err := target.At(i)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("item at %d differs from source", i)
	}
	return nil
}
