package ws

import (
	"encoding/json"
	"sync"

	"github.com/avvvet/geoquiz-services/internal/comm"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// AllCategories is the room of clients that follow every category.
const AllCategories = "*"

// client guards writes, gorilla connections allow one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

type Ws struct {
	connMap sync.Map // to keep track of socket connection with socketId
	roomMap sync.Map // socketId -> watched category codename
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case comm.TypeWatch:
		s.handleWatch(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

func (s *Ws) handleWatch(socketId string, msg *comm.WSMessage) {
	var payload comm.Watch
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: invalid_watch_data Malformed watch payload %s", err)
		return
	}

	room := payload.Category
	if room == "" {
		room = AllCategories
	}
	s.StoreRoom(socketId, room)

	data, _ := json.Marshal(comm.Watch{Category: room})
	s.Send(socketId, &comm.WSMessage{Type: comm.TypeWatchResponse, Data: data})
	log.Infof("socket %s watches %s", socketId, room)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &client{conn: conn})
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return c.(*client).conn, true
}

// HandleDisconnect forgets everything about the socket.
func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.roomMap.Delete(socketId)
}

func (s *Ws) StoreRoom(socketId string, roomId string) {
	s.roomMap.Store(socketId, roomId)
}

func (s *Ws) GetRoom(socketId string) (string, bool) {
	room, ok := s.roomMap.Load(socketId)
	if !ok {
		return "", false
	}
	return room.(string), true
}

func (s *Ws) GetRoomSockets(roomId string) ([]string, bool) {
	var sockets []string
	found := false

	s.roomMap.Range(func(key, value interface{}) bool {
		if value.(string) == roomId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}

// Send writes m to one socket.
func (s *Ws) Send(socketId string, m *comm.WSMessage) {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return
	}
	if err := c.(*client).writeJSON(m); err != nil {
		log.Errorf("write to socket %s: %s", socketId, err)
	}
}

// Broadcast sends m to the sockets watching category and to those watching all.
func (s *Ws) Broadcast(category string, m *comm.WSMessage) {
	rooms := []string{AllCategories}
	if category != "" && category != AllCategories {
		rooms = append(rooms, category)
	}
	for _, room := range rooms {
		sockets, _ := s.GetRoomSockets(room)
		for _, socketId := range sockets {
			s.Send(socketId, m)
		}
	}
}
