package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/textileio/collectibles/cmd/collectibled/auctions"
	"github.com/textileio/collectibles/cmd/collectibled/minter"
	"github.com/textileio/collectibles/cmd/collectibled/notify"
	"github.com/textileio/collectibles/cmd/collectibled/watch"
)

const (
	pingPeriod   = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	updateBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message is a websocket feed message.
type Message struct {
	Type string `json:"type"`
	// Event is set for "notification" messages.
	Event *notify.Event `json:"event,omitempty"`
	// Update is set for "update" messages.
	Update *watch.Update `json:"update,omitempty"`
}

// feed streams notification events and rendered live query updates.
type feed struct {
	api *api
}

func (f *feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("upgrading websocket: %s", err)
		return
	}
	defer func() { _ = conn.Close() }()

	events, cancelEvents := f.api.Notifications.Subscribe()
	defer cancelEvents()
	updates := make(chan watch.Update, updateBuffer)
	cancelUpdates := f.api.Updates.OnUpdate(func(u watch.Update) {
		select {
		case updates <- u:
		default:
			log.Warnf("dropping %s update for slow websocket client", u.Name)
		}
	})
	defer cancelUpdates()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Unblocks the read loop if the client stops reading.
		defer func() { _ = conn.Close() }()
		f.write(conn, events, updates)
	}()

	// The read loop only tracks pongs and closure.
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	cancelEvents()
	<-done
}

func (f *feed) write(conn *websocket.Conn, events <-chan notify.Event, updates <-chan watch.Update) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	send := func(m Message) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(m); err != nil {
			log.Debugf("writing websocket message: %s", err)
			return false
		}
		return true
	}
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			if !send(Message{Type: "notification", Event: &e}) {
				return
			}
		case u := <-updates:
			u.Value = f.render(u.Name)
			if !send(Message{Type: "update", Update: &u}) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// render replaces raw query values with their views.
func (f *feed) render(name string) interface{} {
	switch name {
	case auctions.QueryAuction:
		return f.api.Auctions.QueriedAuction()
	case auctions.QueryActiveAuctions:
		vs, _ := f.api.Auctions.ActiveAuctions()
		return vs
	case minter.QueryTokenIDCounter:
		return counterView(f.api.Minter)
	default:
		return nil
	}
}
