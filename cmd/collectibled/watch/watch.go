package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	logging "github.com/textileio/go-log/v2"
)

var log = logging.Logger("watch")

// HeadReader returns the latest block height of the chain.
type HeadReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// FetchFunc resolves the value of a query.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Update is delivered to listeners every time a query resolves.
type Update struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
	Block uint64      `json:"block"`
}

// Listener is called back with query updates.
type Listener func(Update)

// Query is a live read. Its value is undefined until the first successful fetch.
type Query struct {
	name  string
	fetch FetchFunc

	lock     sync.Mutex
	value    interface{}
	resolved bool
	err      error
}

// Name returns the query name.
func (q *Query) Name() string {
	return q.name
}

// Value returns the latest resolved value, and false if it never resolved.
func (q *Query) Value() (interface{}, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.value, q.resolved
}

// Err returns the error of the latest fetch, if any.
func (q *Query) Err() error {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.err
}

// Config holds the configuration for creating a new Watcher.
type Config struct {
	Heads          HeadReader
	Frequency      time.Duration
	RequestTimeout time.Duration
}

// Watcher re-executes registered queries every time the chain advances.
type Watcher struct {
	config  Config
	mainCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	lock         sync.Mutex
	queries      map[string]*Query
	listeners    map[int]Listener
	nextListener int
	block        uint64
}

// New creates a new Watcher and starts polling the chain head.
func New(config Config) (*Watcher, error) {
	if config.Heads == nil {
		return nil, fmt.Errorf("head reader is required")
	}
	if config.Frequency <= 0 {
		return nil, fmt.Errorf("frequency must be positive")
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		config:    config,
		mainCtx:   ctx,
		cancel:    cancel,
		queries:   make(map[string]*Query),
		listeners: make(map[int]Listener),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// OnUpdate registers a listener for query updates. Call the returned func to
// unregister it.
func (w *Watcher) OnUpdate(l Listener) func() {
	w.lock.Lock()
	defer w.lock.Unlock()
	id := w.nextListener
	w.nextListener++
	w.listeners[id] = l
	return func() {
		w.lock.Lock()
		defer w.lock.Unlock()
		delete(w.listeners, id)
	}
}

// Watch registers fetch under name, replacing any query with the same name,
// and resolves it right away.
func (w *Watcher) Watch(name string, fetch FetchFunc) *Query {
	q := &Query{name: name, fetch: fetch}
	w.lock.Lock()
	w.queries[name] = q
	w.lock.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.resolve(q)
	}()
	return q
}

// Unwatch drops the query registered under name.
func (w *Watcher) Unwatch(name string) {
	w.lock.Lock()
	defer w.lock.Unlock()
	delete(w.queries, name)
}

// Get returns the query registered under name.
func (w *Watcher) Get(name string) (*Query, bool) {
	w.lock.Lock()
	defer w.lock.Unlock()
	q, ok := w.queries[name]
	return q, ok
}

// Refresh re-executes every registered query now.
func (w *Watcher) Refresh(ctx context.Context) {
	for _, q := range w.snapshot() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.resolve(q)
	}
}

// Close stops polling and waits for in-flight fetches.
func (w *Watcher) Close() error {
	w.cancel()
	w.wg.Wait()
	return nil
}

func (w *Watcher) run() {
	defer w.wg.Done()

	freq := w.config.Frequency
	for {
		select {
		case <-time.After(freq):
			ctx, cancel := context.WithTimeout(w.mainCtx, w.timeout())
			height, err := w.config.Heads.BlockNumber(ctx)
			cancel()
			if err != nil {
				log.Errorf("getting block number: %s", err)
				freq *= 2
				continue
			}
			freq = w.config.Frequency

			w.lock.Lock()
			advanced := height > w.block
			if advanced {
				w.block = height
			}
			w.lock.Unlock()
			if !advanced {
				continue
			}
			log.Debugf("new block %d, refreshing queries", height)
			w.Refresh(w.mainCtx)
		case <-w.mainCtx.Done():
			return
		}
	}
}

func (w *Watcher) resolve(q *Query) {
	ctx, cancel := context.WithTimeout(w.mainCtx, w.timeout())
	defer cancel()

	v, err := q.fetch(ctx)

	q.lock.Lock()
	q.err = err
	if err == nil {
		q.value = v
		q.resolved = true
	}
	q.lock.Unlock()

	if err != nil {
		log.Errorf("resolving %s: %s", q.name, err)
		return
	}

	w.lock.Lock()
	current := w.queries[q.name] == q
	block := w.block
	listeners := make([]Listener, 0, len(w.listeners))
	for _, l := range w.listeners {
		listeners = append(listeners, l)
	}
	w.lock.Unlock()
	if !current {
		return
	}
	for _, l := range listeners {
		l(Update{Name: q.name, Value: v, Block: block})
	}
}

func (w *Watcher) snapshot() []*Query {
	w.lock.Lock()
	defer w.lock.Unlock()
	res := make([]*Query, 0, len(w.queries))
	for _, q := range w.queries {
		res = append(res, q)
	}
	return res
}

func (w *Watcher) timeout() time.Duration {
	if w.config.RequestTimeout <= 0 {
		return time.Minute
	}
	return w.config.RequestTimeout
}
