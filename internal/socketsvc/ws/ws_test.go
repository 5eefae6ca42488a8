package ws

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRooms(t *testing.T) {
	s := NewWs()
	s.StoreRoom("a", "capitals")
	s.StoreRoom("b", "capitals")
	s.StoreRoom("c", AllCategories)

	sockets, ok := s.GetRoomSockets("capitals")
	assert.True(t, ok)
	sort.Strings(sockets)
	assert.Equal(t, []string{"a", "b"}, sockets)

	s.HandleDisconnect("a")
	sockets, _ = s.GetRoomSockets("capitals")
	assert.Equal(t, []string{"b"}, sockets)

	_, ok = s.GetRoom("a")
	assert.False(t, ok)

	_, ok = s.GetRoomSockets("rivers")
	assert.False(t, ok)
}
