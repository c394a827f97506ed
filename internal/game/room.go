// internal/game/room.go
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/perchgames/slaptable/internal/deck"
)

// DefaultRoomID is used when a join message names no room.
const DefaultRoomID = "demo"

// processStart anchors the monotonic suffix on slap timestamps.
var processStart = time.Now()

// Player is a per-join identity. Players stay in the roster after they
// disconnect; only the Connected flag flips.
type Player struct {
	ID        string
	Name      string
	Connected bool
}

// Room holds the entire state for one game table: a shuffled deck, a discard
// pile, and the player roster. All operations serialize on mu, so inbound
// events for one room run to completion before the next starts.
//
// Every invalid input (unknown player, empty deck) is absorbed as a silent
// no-op. That permissive behavior is deliberate; the router relies on it.
type Room struct {
	ID string

	mu      sync.Mutex
	deck    []deck.Card
	discard []deck.Card
	players map[string]*Player
	order   []string // join order, for stable snapshot enumeration

	emit EmitFunc
}

// NewRoom builds a room with a freshly shuffled deck and immediately emits a
// full-state snapshot through emit.
func NewRoom(id string, emit EmitFunc) *Room {
	r := &Room{
		ID:      id,
		deck:    deck.New(),
		players: make(map[string]*Player),
		emit:    emit,
	}
	r.mu.Lock()
	r.emitSnapshot()
	r.mu.Unlock()
	return r
}

// AddPlayer inserts (or silently overwrites) a roster entry with
// connected=true, then emits player.joined and a snapshot.
func (r *Room) AddPlayer(playerID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[playerID]; !exists {
		r.order = append(r.order, playerID)
	}
	r.players[playerID] = &Player{ID: playerID, Name: name, Connected: true}

	r.emit(Event{Type: EventPlayerJoined, PlayerID: playerID, Name: name})
	r.emitSnapshot()
}

// SetDisconnected flips a player's connected flag and emits player.left plus a
// snapshot. Unknown ids are ignored; players are never removed from the roster.
func (r *Room) SetDisconnected(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return
	}
	p.Connected = false

	r.emit(Event{Type: EventPlayerLeft, PlayerID: playerID})
	r.emitSnapshot()
}

// Draw pops the top card of the deck and pushes it straight onto the discard
// pile (current rules grant the drawing player no hand), emitting action.draw,
// action.discard, then a snapshot, in that order. Unknown players and an empty
// deck are silent no-ops.
func (r *Room) Draw(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return
	}
	if len(r.deck) == 0 {
		return
	}

	c := r.deck[len(r.deck)-1]
	r.deck = r.deck[:len(r.deck)-1]
	r.discard = append(r.discard, c)

	r.emit(Event{Type: EventDraw, PlayerID: playerID})
	r.emit(Event{Type: EventDiscard, PlayerID: playerID, CardID: c.ID})
	r.emitSnapshot()
}

// Slap broadcasts a slap event regardless of roster membership or game state.
// The timestamp is a wall-clock RFC3339Nano string with a monotonic nanosecond
// suffix, a tie-break aid for near-simultaneous slaps, not an arbitration
// mechanism. No state changes and no snapshot follows.
func (r *Room) Slap(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.emit(Event{Type: EventSlap, PlayerID: playerID, TS: slapStamp()})
}

// Snapshot returns the current table state.
func (r *Room) Snapshot() TableState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// emitSnapshot broadcasts the current table state. Callers must hold mu.
func (r *Room) emitSnapshot() {
	st := r.snapshotLocked()
	r.emit(Event{Type: EventTableState, Table: &st})
}

func (r *Room) snapshotLocked() TableState {
	st := TableState{
		GameID:    r.ID,
		Players:   make([]PlayerState, 0, len(r.order)),
		DeckCount: len(r.deck),
	}
	for _, id := range r.order {
		p := r.players[id]
		st.Players = append(st.Players, PlayerState{ID: p.ID, Name: p.Name, Connected: p.Connected})
	}
	if n := len(r.discard); n > 0 {
		st.DiscardTop = r.discard[n-1].ID
	}
	return st
}

func slapStamp() string {
	now := time.Now()
	return fmt.Sprintf("%s.%d", now.UTC().Format(time.RFC3339Nano), now.Sub(processStart).Nanoseconds())
}
