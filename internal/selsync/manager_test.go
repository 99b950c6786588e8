package selsync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/selsync/internal/collection"
)

type fakeHost struct {
	selection *collection.List[*item]
}

func (h *fakeHost) SelectedItems() *collection.List[*item] { return h.selection }

func (h *fakeHost) String() string { return "fakeHost" }

type plainHost struct{}

func TestManagerStartAndStop(t *testing.T) {
	t.Parallel()

	host := &fakeHost{selection: collection.New[*item]()}
	m := NewManager[*item](host, nil)
	require.False(t, m.Active())

	ab := items("A", "B")
	mirror := collection.New(ab...)
	require.NoError(t, m.Start(mirror))
	require.True(t, m.Active())
	require.Equal(t, ab, host.selection.Items())

	sync := m.Synchronizer()
	require.NotNil(t, sync)
	require.Same(t, host.selection, sync.Primary())
	require.Same(t, mirror, sync.Secondary())

	m.Stop()
	require.False(t, m.Active())
	require.Nil(t, m.Synchronizer())
	require.Equal(t, Stopped, sync.State())
}

func TestManagerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	host := &fakeHost{selection: collection.New(items("A")...)}
	m := NewManager[*item](host, nil)

	require.NotPanics(t, m.Stop)
	require.NotPanics(t, m.Stop)
	require.Equal(t, 1, host.selection.Len())

	mirror := collection.New(items("B", "C")...)
	require.NoError(t, m.Start(mirror))
	m.Stop()
	before := host.selection.Items()
	m.Stop()
	require.Equal(t, before, host.selection.Items())
	require.Equal(t, mirror.Items(), host.selection.Items())
}

func TestManagerNilMirrorIsNoop(t *testing.T) {
	t.Parallel()

	host := &fakeHost{selection: collection.New(items("A")...)}
	m := NewManager[*item](host, nil)
	require.NoError(t, m.Start(nil))
	require.False(t, m.Active())
	require.Nil(t, m.Synchronizer())
	require.Equal(t, 1, host.selection.Len())

	mirror := collection.New(items("B", "C")...)
	require.NoError(t, m.Start(mirror))
	held := m.Synchronizer()

	// nil leaves an active binding alone
	require.NoError(t, m.Start(nil))
	require.True(t, m.Active())
	require.Same(t, held, m.Synchronizer())
	require.NoError(t, mirror.Add(&item{name: "D"}))
	require.Equal(t, mirror.Items(), host.selection.Items())
}

func TestManagerReattachReplacesCleanly(t *testing.T) {
	t.Parallel()

	host := &fakeHost{selection: collection.New[*item]()}
	m := NewManager[*item](host, nil)

	m1 := collection.New(items("A", "B")...)
	m2 := collection.New(items("X")...)

	require.NoError(t, m.Start(m1))
	first := m.Synchronizer()
	require.NoError(t, m.Start(m2))

	require.Equal(t, Stopped, first.State())
	require.Equal(t, m2.Items(), host.selection.Items())
	require.Zero(t, m1.Subscribers())

	require.NoError(t, m1.Add(&item{name: "late"}))
	require.Equal(t, m2.Items(), host.selection.Items())

	y := &item{name: "Y"}
	require.NoError(t, host.selection.Add(y))
	require.Equal(t, host.selection.Items(), m2.Items())
	require.False(t, m1.Contains(y))
}

func TestManagerUnsupportedHost(t *testing.T) {
	t.Parallel()

	m := NewManager[*item](&plainHost{}, nil)
	err := m.Start(collection.New(items("A")...))
	require.ErrorIs(t, err, ErrConfiguration)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "host has no selection collection to bind", cfgErr.Reason)
	require.Equal(t, "*selsync.plainHost", cfgErr.Host)
	require.False(t, m.Active())
	require.Nil(t, m.Synchronizer())
	require.NotPanics(t, m.Stop)
}

func TestManagerNilSelectionCollection(t *testing.T) {
	t.Parallel()

	m := NewManager[*item](&fakeHost{}, nil)
	err := m.Start(collection.New[*item]())
	require.ErrorIs(t, err, ErrConfiguration)
	require.Contains(t, err.Error(), "fakeHost")
}

func TestManagerWrapsResolverErrors(t *testing.T) {
	t.Parallel()

	lookup := errors.New("widget not mounted")
	m := NewManager[*item]("host", func(any) (*collection.List[*item], error) {
		return nil, lookup
	})
	err := m.Start(collection.New[*item]())
	require.ErrorIs(t, err, ErrConfiguration)
	require.ErrorIs(t, err, lookup)
}

func TestManagerSameCollectionFailsWithoutSynchronizer(t *testing.T) {
	t.Parallel()

	shared := collection.New(items("A")...)
	host := &fakeHost{selection: shared}
	m := NewManager[*item](host, nil)

	require.ErrorIs(t, m.Start(shared), ErrConfiguration)
	require.Nil(t, m.Synchronizer())
	require.Zero(t, shared.Subscribers())
}
