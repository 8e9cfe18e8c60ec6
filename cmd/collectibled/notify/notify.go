package notify

import (
	"crypto/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/textileio/collectibles/collectible"
	logging "github.com/textileio/go-log/v2"
)

var log = logging.Logger("notify")

// Kind is the kind of a notification.
type Kind string

const (
	// KindLoading is a sticky notification for an outstanding call.
	KindLoading Kind = "loading"
	// KindSuccess reports a completed action.
	KindSuccess Kind = "success"
	// KindError reports a refused or failed action.
	KindError Kind = "error"
)

// Notification is a visible user-facing message.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// EventType tells whether a notification appeared or went away.
type EventType string

const (
	// EventAdded is emitted when a notification becomes visible.
	EventAdded EventType = "added"
	// EventRemoved is emitted when a visible notification is dismissed or expires.
	EventRemoved EventType = "removed"
)

// Event is published to subscribers on every visible change.
type Event struct {
	Type         EventType    `json:"type"`
	Notification Notification `json:"notification"`
}

// Center keeps track of visible notifications.
type Center struct {
	ttl time.Duration

	lock    sync.Mutex
	entropy *ulid.MonotonicEntropy
	visible map[string]Notification
	timers  map[string]*time.Timer
	subs    map[int]chan Event
	nextSub int
}

var _ collectible.Notifier = (*Center)(nil)

// New returns a new Center. Success and error notifications expire after ttl,
// a zero ttl keeps them until removed.
func New(ttl time.Duration) *Center {
	return &Center{
		ttl:     ttl,
		entropy: ulid.Monotonic(rand.Reader, 0),
		visible: make(map[string]Notification),
		timers:  make(map[string]*time.Timer),
		subs:    make(map[int]chan Event),
	}
}

// Loading shows a sticky notification and returns its handle.
func (c *Center) Loading(msg string) string {
	log.Infof("loading: %s", msg)
	return c.add(KindLoading, msg)
}

// Success shows a success notification.
func (c *Center) Success(msg string) {
	log.Infof("success: %s", msg)
	c.add(KindSuccess, msg)
}

// Error shows an error notification.
func (c *Center) Error(msg string) {
	log.Errorf("error: %s", msg)
	c.add(KindError, msg)
}

// Remove dismisses a notification. Unknown or already removed handles are ignored.
func (c *Center) Remove(id string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.removeLocked(id)
}

// WithLoading shows a loading notification while f runs and dismisses it on
// every return path of f.
func (c *Center) WithLoading(msg string, f func() error) error {
	id := c.Loading(msg)
	defer c.Remove(id)
	return f()
}

// Visible returns the visible notifications, oldest first.
func (c *Center) Visible() []Notification {
	c.lock.Lock()
	defer c.lock.Unlock()

	res := make([]Notification, 0, len(c.visible))
	for _, n := range c.visible {
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Subscribe returns a channel of visibility events. Events are dropped for
// subscribers that don't keep up. Call the returned func to unsubscribe.
func (c *Center) Subscribe() (<-chan Event, func()) {
	c.lock.Lock()
	defer c.lock.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan Event, 64)
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.lock.Lock()
			defer c.lock.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

// Close stops pending expirations.
func (c *Center) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	return nil
}

func (c *Center) add(kind Kind, msg string) string {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := time.Now()
	id := ulid.MustNew(ulid.Timestamp(now), c.entropy).String()
	n := Notification{ID: id, Kind: kind, Message: msg, CreatedAt: now}
	c.visible[id] = n
	c.publishLocked(Event{Type: EventAdded, Notification: n})

	if kind != KindLoading && c.ttl > 0 {
		c.timers[id] = time.AfterFunc(c.ttl, func() { c.Remove(id) })
	}
	return id
}

func (c *Center) removeLocked(id string) {
	n, ok := c.visible[id]
	if !ok {
		return
	}
	delete(c.visible, id)
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	c.publishLocked(Event{Type: EventRemoved, Notification: n})
}

func (c *Center) publishLocked(e Event) {
	for _, ch := range c.subs {
		select {
		case ch <- e:
		default:
			log.Warnf("dropping %s event for slow subscriber", e.Type)
		}
	}
}
