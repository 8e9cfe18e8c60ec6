package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	golog "github.com/textileio/go-log/v2"
)

func init() {
	golog.SetAllLoggers(golog.LevelDebug)
}

func TestLoadingIsStickyUntilRemoved(t *testing.T) {
	t.Parallel()
	c := New(time.Millisecond)

	id := c.Loading("Placing bid...")
	time.Sleep(20 * time.Millisecond)
	require.Len(t, c.Visible(), 1)

	c.Remove(id)
	require.Empty(t, c.Visible())
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()
	c := New(0)
	events, cancel := c.Subscribe()
	defer cancel()

	id := c.Loading("Creating auction...")
	c.Success("Auction created successfully!")
	require.Equal(t, EventAdded, (<-events).Type)
	require.Equal(t, EventAdded, (<-events).Type)

	c.Remove(id)
	e := <-events
	require.Equal(t, EventRemoved, e.Type)
	require.Equal(t, id, e.Notification.ID)
	before := c.Visible()

	c.Remove(id)
	c.Remove("unknown")
	require.Equal(t, before, c.Visible())
	select {
	case e := <-events:
		t.Fatalf("unexpected event %v", e)
	default:
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()
	c := New(10 * time.Millisecond)

	c.Success("done")
	c.Error("failed")
	require.Len(t, c.Visible(), 2)
	require.Eventually(t, func() bool { return len(c.Visible()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestVisibleOrder(t *testing.T) {
	t.Parallel()
	c := New(0)

	c.Error("first")
	c.Loading("second")
	c.Success("third")

	vis := c.Visible()
	require.Len(t, vis, 3)
	require.Equal(t, "first", vis[0].Message)
	require.Equal(t, KindError, vis[0].Kind)
	require.Equal(t, "second", vis[1].Message)
	require.Equal(t, KindLoading, vis[1].Kind)
	require.Equal(t, "third", vis[2].Message)
	require.Equal(t, KindSuccess, vis[2].Kind)
}

func TestWithLoading(t *testing.T) {
	t.Parallel()
	c := New(0)

	err := c.WithLoading("Ending auction...", func() error {
		vis := c.Visible()
		require.Len(t, vis, 1)
		require.Equal(t, KindLoading, vis[0].Kind)
		return errors.New("reverted")
	})
	require.Error(t, err)
	require.Empty(t, c.Visible())

	require.Panics(t, func() {
		_ = c.WithLoading("Ending auction...", func() error { panic("boom") })
	})
	require.Empty(t, c.Visible())
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()
	c := New(0)

	events, cancel := c.Subscribe()
	cancel()
	cancel()
	_, ok := <-events
	require.False(t, ok)

	c.Success("nobody listening")
	require.Len(t, c.Visible(), 1)
}
