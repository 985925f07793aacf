package agent

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
)

func newRegistry(t *testing.T, names ...string) *Registry {
	t.Helper()
	r := NewRegistry()
	for i, name := range names {
		if err := r.Add(uint32(i), name, i == 0); err != nil {
			t.Fatalf("Add(%d) error = %v", i, err)
		}
	}
	return r
}

func TestRegistryAdd(t *testing.T) {
	t.Run("DenseIDs", func(t *testing.T) {
		r := newRegistry(t, "platform", "ospm")
		if r.Count() != 2 {
			t.Errorf("Count() = %d, want 2", r.Count())
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		r := newRegistry(t, "platform")
		if err := r.Add(0, "again", false); !errors.Is(err, ErrAgentExists) {
			t.Errorf("Add() error = %v, want ErrAgentExists", err)
		}
	})

	t.Run("Gap", func(t *testing.T) {
		r := newRegistry(t, "platform")
		if err := r.Add(2, "ospm", false); !errors.Is(err, ErrInvalidAgentID) {
			t.Errorf("Add() error = %v, want ErrInvalidAgentID", err)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		r := NewRegistry()
		for i := range uint32(MaxAgents) {
			if err := r.Add(i, "a", false); err != nil {
				t.Fatalf("Add(%d) error = %v", i, err)
			}
		}
		if err := r.Add(MaxAgents, "extra", false); !errors.Is(err, ErrTooManyAgents) {
			t.Errorf("Add() error = %v, want ErrTooManyAgents", err)
		}
	})
}

func TestRegistryLookup(t *testing.T) {
	r := newRegistry(t, "platform", "ospm")

	a, err := r.Get(1)
	if err != nil || a.Name != "ospm" || a.Privileged {
		t.Errorf("Get(1) = %+v, %v", a, err)
	}
	if _, err := r.Get(2); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("Get(2) error = %v", err)
	}
	if !r.IsPrivileged(0) || r.IsPrivileged(1) || r.IsPrivileged(7) {
		t.Error("only agent 0 is privileged")
	}
	if id, ok := r.Lookup("ospm"); !ok || id != 1 {
		t.Errorf("Lookup(ospm) = %d, %v", id, ok)
	}
	if !r.Has(1) || r.Has(2) {
		t.Error("Has() disagrees with Count()")
	}
	if got := r.List(); len(got) != 2 || got[0].String() != "platform(0)" {
		t.Errorf("List() = %v", got)
	}
}

func TestRegistryConnections(t *testing.T) {
	r := newRegistry(t, "platform", "ospm")

	var connects, disconnects []uint32
	r.OnConnect(func(id uint32) { connects = append(connects, id) })
	r.OnDisconnect(func(id uint32) { disconnects = append(disconnects, id) })

	if err := r.SetConnected(1); err != nil {
		t.Fatal(err)
	}
	if err := r.SetConnected(1); err != nil {
		t.Fatal(err)
	}
	if !r.IsConnected(1) {
		t.Error("agent 1 should be connected")
	}
	if len(connects) != 1 {
		t.Errorf("connect callback fired %d times, want 1", len(connects))
	}

	if err := r.SetDisconnected(1); err != nil {
		t.Fatal(err)
	}
	if len(disconnects) != 0 || !r.IsConnected(1) {
		t.Error("agent 1 still has a connection")
	}
	if err := r.SetDisconnected(1); err != nil {
		t.Fatal(err)
	}
	if len(disconnects) != 1 || r.IsConnected(1) {
		t.Errorf("disconnects = %v", disconnects)
	}

	if err := r.SetDisconnected(1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("extra disconnect error = %v", err)
	}
	if err := r.SetConnected(9); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("unknown agent error = %v", err)
	}
}

func TestCallbackMayUseRegistry(t *testing.T) {
	r := newRegistry(t, "platform")
	var name string
	r.OnConnect(func(id uint32) {
		a, _ := r.Get(id)
		name = a.Name
	})
	if err := r.SetConnected(0); err != nil {
		t.Fatal(err)
	}
	if name != "platform" {
		t.Errorf("callback saw %q", name)
	}
}

func TestReconnectWaitsForDisconnectCallback(t *testing.T) {
	r := newRegistry(t, "platform")
	if err := r.SetConnected(0); err != nil {
		t.Fatal(err)
	}

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}
	entered := make(chan struct{})
	release := make(chan struct{})
	r.OnDisconnect(func(uint32) {
		close(entered)
		<-release
		record("disconnect")
	})
	r.OnConnect(func(uint32) { record("connect") })

	disconnected := make(chan error, 1)
	go func() { disconnected <- r.SetDisconnected(0) }()
	<-entered

	reconnected := make(chan error, 1)
	go func() { reconnected <- r.SetConnected(0) }()
	select {
	case <-reconnected:
		t.Fatal("reconnect finished while the disconnect callback was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-disconnected; err != nil {
		t.Fatal(err)
	}
	if err := <-reconnected; err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(order, []string{"disconnect", "connect"}) {
		t.Errorf("callback order = %v", order)
	}
	if !r.IsConnected(0) {
		t.Error("agent 0 should be connected")
	}
}

func TestUpdateLastSeen(t *testing.T) {
	r := newRegistry(t, "platform")
	before, _ := r.Get(0)

	time.Sleep(time.Millisecond)
	r.UpdateLastSeen(0)
	after, _ := r.Get(0)
	if !after.LastSeen.After(before.LastSeen) {
		t.Errorf("LastSeen = %v, want after %v", after.LastSeen, before.LastSeen)
	}

	r.UpdateLastSeen(9)
	if r.Count() != 1 {
		t.Errorf("Count() = %d after unknown id", r.Count())
	}
}
