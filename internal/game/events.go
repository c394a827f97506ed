// internal/game/events.go
package game

// EventType is an enum-like type for events broadcast to a room.
type EventType string

const (
	EventPlayerJoined EventType = "player.joined"
	EventPlayerLeft   EventType = "player.left"
	EventDraw         EventType = "action.draw"
	EventDiscard      EventType = "action.discard"
	EventSlap         EventType = "action.slap"
	EventTableState   EventType = "state.table"

	// EventError is reserved for validation failures. Current rules absorb
	// invalid input silently, so nothing emits it yet.
	EventError EventType = "meta.error"
)

// Event is one fire-and-forget notification fanned out to every connection
// bound to a room. Fields are omitted when not meaningful for the type.
type Event struct {
	Type     EventType   `json:"type"`
	PlayerID string      `json:"playerId,omitempty"`
	Name     string      `json:"name,omitempty"`
	CardID   string      `json:"cardId,omitempty"`
	TS       string      `json:"ts,omitempty"`
	Table    *TableState `json:"table,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// PlayerState is one roster entry inside a TableState snapshot.
type PlayerState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// TableState is the derived summary of a room, recomputed and rebroadcast
// after every mutating operation. Players are listed in join order.
type TableState struct {
	GameID     string        `json:"gameId"`
	Players    []PlayerState `json:"players"`
	DeckCount  int           `json:"deckCount"`
	DiscardTop string        `json:"discardTop,omitempty"`
}

// EmitFunc is the capability a Room uses to publish events. The owner supplies
// it at construction, which keeps the room ignorant of the transport.
type EmitFunc func(ev Event)
