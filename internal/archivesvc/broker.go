package archivesvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avvvet/geoquiz-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Saver interface {
	Save(ctx context.Context, ev comm.GameEnded) error
}

type Broker struct {
	Conn  *nats.Conn
	Saver Saver
}

func NewBroker(conn *nats.Conn, saver Saver) *Broker {
	return &Broker{Conn: conn, Saver: saver}
}

// QueueSubscribe consumes game service events. Archive instances share the
// queue group, so each event is archived once.
func (b *Broker) QueueSubscribe(topic, queueGroup string) (*nats.Subscription, error) {
	return b.Conn.QueueSubscribe(topic, queueGroup, b.handleMessage)
}

func (b *Broker) handleMessage(msgNats *nats.Msg) {
	if err := b.Handle(msgNats.Data); err != nil {
		log.Errorf("Error [Broker.Handle] %s", err)
	}
}

// Handle archives game-ended events and ignores every other type.
func (b *Broker) Handle(raw []byte) error {
	msg := &comm.WSMessage{}
	if err := json.Unmarshal(raw, msg); err != nil {
		return fmt.Errorf("malformed message: %w", err)
	}
	if msg.Type != comm.TypeGameEnded {
		return nil
	}

	var ev comm.GameEnded
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		return fmt.Errorf("malformed %s event: %w", msg.Type, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.Saver.Save(ctx, ev); err != nil {
		return err
	}
	log.Infof("archived game %d (%s) score %d", ev.GameID, ev.Category, ev.Score)
	return nil
}
