// internal/router/router.go
package router

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"

	"github.com/perchgames/slaptable/internal/game"
	"github.com/perchgames/slaptable/internal/history"
)

// playerIDLen matches the short per-join identities the service hands out.
const playerIDLen = 8

// feedBacklog bounds the queue between event emission and the feed writer. A
// full backlog drops entries rather than stalling game flow.
const feedBacklog = 256

// EventRecorder consumes feed entries, one at a time. *history.Recorder is the
// production implementation.
type EventRecorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Conn is the router's view of a live transport connection. Implementations
// must be safe for concurrent Send calls; a Send error means the frame was not
// delivered, nothing more.
type Conn interface {
	ID() string
	Send(data []byte) error
}

// ClientMessage is the structure of every inbound frame.
type ClientMessage struct {
	Type   string `json:"type"`
	GameID string `json:"gameId,omitempty"`
	Name   string `json:"name,omitempty"`
}

// JoinedReply is the direct (non-broadcast) response to a join message.
type JoinedReply struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	GameID   string `json:"gameId"`
}

type binding struct {
	roomID   string
	playerID string
}

// Router owns the room registry and the live connection->(room, player)
// bindings, routes inbound frames to room operations, and fans room events out
// to every connection bound to the room. Construct exactly one per process and
// inject it into the transport layer.
type Router struct {
	log    *logrus.Logger
	rooms  *game.RoomStore
	feedCh chan history.Entry // nil when no recorder is configured

	mu       sync.Mutex
	conns    map[string]Conn
	bindings map[string]binding
}

// New builds a Router. recorder may be nil to disable the event feed; when
// set, a single writer goroutine drains entries in emission order.
func New(log *logrus.Logger, recorder EventRecorder) *Router {
	rt := &Router{
		log:      log,
		rooms:    game.NewRoomStore(),
		conns:    make(map[string]Conn),
		bindings: make(map[string]binding),
	}
	if recorder != nil {
		rt.feedCh = make(chan history.Entry, feedBacklog)
		go rt.feedLoop(recorder)
	}
	return rt
}

// feedLoop is the only writer to the recorder, so entries reach the feed in
// the order they were enqueued.
func (rt *Router) feedLoop(recorder EventRecorder) {
	for e := range rt.feedCh {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := recorder.Record(ctx, e); err != nil {
			rt.log.Warnf("history feed write failed for room %s: %v", e.RoomID, err)
		}
		cancel()
	}
}

// HandleMessage parses one inbound frame and dispatches it. Malformed frames,
// frames from unbound connections (other than join), and unknown types are
// silently discarded; there is no error reply surface.
func (rt *Router) HandleMessage(conn Conn, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		rt.log.WithField("conn", conn.ID()).Debugf("dropping malformed frame: %v", err)
		return
	}

	if msg.Type == "join" {
		rt.handleJoin(conn, msg)
		return
	}

	rt.mu.Lock()
	b, bound := rt.bindings[conn.ID()]
	rt.mu.Unlock()
	if !bound {
		return
	}

	room, ok := rt.rooms.Get(b.roomID)
	if !ok {
		return
	}

	switch msg.Type {
	case "draw":
		room.Draw(b.playerID)
	case "slap":
		room.Slap(b.playerID)
	default:
		// Unrecognized types are ignored.
	}
}

// handleJoin mints a fresh player identity, resolves or creates the room, and
// binds the connection. A join on an already-bound connection deliberately
// creates a second identity and overwrites the prior binding; the old roster
// entry simply goes stale.
func (rt *Router) handleJoin(conn Conn, msg ClientMessage) {
	playerID, err := gonanoid.New(playerIDLen)
	if err != nil {
		rt.log.Errorf("failed to generate player id: %v", err)
		return
	}

	roomID := msg.GameID
	if roomID == "" {
		roomID = game.DefaultRoomID
	}
	room := rt.rooms.Ensure(roomID, rt.emitFunc(roomID))

	rt.mu.Lock()
	rt.conns[conn.ID()] = conn
	rt.bindings[conn.ID()] = binding{roomID: room.ID, playerID: playerID}
	rt.mu.Unlock()

	name := msg.Name
	if name == "" {
		name = "P-" + playerID
	}
	room.AddPlayer(playerID, name)

	rt.send(conn, JoinedReply{Type: "joined", PlayerID: playerID, GameID: room.ID})

	rt.log.WithFields(logrus.Fields{
		"room":   room.ID,
		"player": playerID,
		"conn":   conn.ID(),
	}).Info("player joined")
}

// HandleDisconnect marks the bound player as disconnected and removes the
// binding. Unbound connections are a no-op.
func (rt *Router) HandleDisconnect(conn Conn) {
	rt.mu.Lock()
	b, bound := rt.bindings[conn.ID()]
	delete(rt.bindings, conn.ID())
	delete(rt.conns, conn.ID())
	rt.mu.Unlock()

	if !bound {
		return
	}
	if room, ok := rt.rooms.Get(b.roomID); ok {
		room.SetDisconnected(b.playerID)
	}
	rt.log.WithFields(logrus.Fields{
		"room":   b.roomID,
		"player": b.playerID,
		"conn":   conn.ID(),
	}).Info("player disconnected")
}

// emitFunc builds the emit capability injected into a room: serialize the
// event once, then fan out to every connection currently bound to the room.
// Recipients are snapshotted under the registry lock and written outside it.
// Each room's events carry their own sequence numbers; the room mutex already
// serializes emits, so the numbers follow emission order.
func (rt *Router) emitFunc(roomID string) game.EmitFunc {
	var seq atomic.Int64
	return func(ev game.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			rt.log.Errorf("failed to marshal %s event for room %s: %v", ev.Type, roomID, err)
			return
		}

		rt.mu.Lock()
		targets := make([]Conn, 0, len(rt.bindings))
		for connID, b := range rt.bindings {
			if b.roomID != roomID {
				continue
			}
			if c, ok := rt.conns[connID]; ok {
				targets = append(targets, c)
			}
		}
		rt.mu.Unlock()

		// Best-effort delivery: one failed send must not starve the rest.
		for _, c := range targets {
			if err := c.Send(data); err != nil {
				rt.log.WithField("conn", c.ID()).Warnf("dropping %s broadcast: %v", ev.Type, err)
			}
		}

		if rt.feedCh != nil {
			select {
			case rt.feedCh <- history.EntryFromEvent(roomID, seq.Add(1), ev):
			default:
				rt.log.Warnf("history feed backlog full, dropping %s event for room %s", ev.Type, roomID)
			}
		}
	}
}

// send delivers a direct reply to a single connection.
func (rt *Router) send(conn Conn, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		rt.log.Errorf("failed to marshal direct reply: %v", err)
		return
	}
	if err := conn.Send(data); err != nil {
		rt.log.WithField("conn", conn.ID()).Warnf("direct reply failed: %v", err)
	}
}
