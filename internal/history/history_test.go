// internal/history/history_test.go
package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/perchgames/slaptable/internal/game"
)

func TestEntryFromEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   game.Event
		want Entry
	}{
		{
			name: "join carries player and name is dropped",
			ev:   game.Event{Type: game.EventPlayerJoined, PlayerID: "p1", Name: "Alice"},
			want: Entry{RoomID: "g1", Seq: 1, EventType: "player.joined", PlayerID: "p1"},
		},
		{
			name: "discard carries card id",
			ev:   game.Event{Type: game.EventDiscard, PlayerID: "p1", CardID: "♠7"},
			want: Entry{RoomID: "g1", Seq: 2, EventType: "action.discard", PlayerID: "p1", CardID: "♠7"},
		},
		{
			name: "slap carries its timestamp string",
			ev:   game.Event{Type: game.EventSlap, PlayerID: "p2", TS: "2026-08-28T01:02:03.5Z.42"},
			want: Entry{RoomID: "g1", Seq: 3, EventType: "action.slap", PlayerID: "p2", SlapTS: "2026-08-28T01:02:03.5Z.42"},
		},
		{
			name: "snapshot flattens to a bare marker",
			ev:   game.Event{Type: game.EventTableState, Table: &game.TableState{GameID: "g1", DeckCount: 51}},
			want: Entry{RoomID: "g1", Seq: 4, EventType: "state.table"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now().UnixMilli()
			got := EntryFromEvent("g1", tt.want.Seq, tt.ev)

			assert.GreaterOrEqual(t, got.Timestamp, before)
			got.Timestamp = 0
			assert.Equal(t, tt.want, got)
		})
	}
}
