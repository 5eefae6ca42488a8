package broker

import (
	"encoding/json"

	"github.com/avvvet/geoquiz-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Publisher is the part of *nats.Conn the broker needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// Broker fans game events out on comm.GameServiceSubject. Publishing is
// best-effort: failures are logged and never reach the caller.
type Broker struct {
	Conn Publisher
}

func NewBroker(nc *nats.Conn) *Broker {
	if nc == nil {
		return &Broker{}
	}
	return &Broker{Conn: nc}
}

func (b *Broker) RoundCompleted(ev comm.RoundCompleted) {
	b.publishEvent(comm.TypeRoundCompleted, ev)
}

func (b *Broker) GameEnded(ev comm.GameEnded) {
	b.publishEvent(comm.TypeGameEnded, ev)
}

func (b *Broker) publishEvent(msgType string, v interface{}) {
	if b.Conn == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("[Broker.%s] unable to marshal event: %s", msgType, err)
		return
	}

	msg := &comm.WSMessage{
		Type: msgType,
		Data: data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(comm.GameServiceSubject, payload)
}

// relay service publish message for socket and archive services to consume
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
