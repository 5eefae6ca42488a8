package broker

import (
	"encoding/json"

	"github.com/avvvet/geoquiz-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn      *nats.Conn
	Broadcast func(category string, m *comm.WSMessage)
}

func NewBroker(conn *nats.Conn, fncBroadcast func(string, *comm.WSMessage)) *Broker {
	return &Broker{
		Conn:      conn,
		Broadcast: fncBroadcast,
	}
}

// consume message from game service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// handleMessages receive message from game service
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	b.Dispatch(msgNats.Data)
}

// Dispatch relays a game service event to the sockets watching its category.
func (b *Broker) Dispatch(raw []byte) {
	message := &comm.WSMessage{}
	if err := json.Unmarshal(raw, message); err != nil {
		log.Errorf("Error %s", err)
		return
	}

	switch message.Type {
	case comm.TypeRoundCompleted, comm.TypeGameEnded:
		var event struct {
			Category string `json:"category"`
		}
		if err := json.Unmarshal(message.Data, &event); err != nil {
			log.Errorf("Error [Broker.Dispatch] malformed %s event: %s", message.Type, err)
			return
		}
		b.Broadcast(event.Category, message)
	default:
		log.Warnf("Unknown message %s", message.Type)
	}
}
