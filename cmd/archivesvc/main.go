package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/avvvet/geoquiz-services/configs"
	"github.com/avvvet/geoquiz-services/internal/archivesvc"
	"github.com/avvvet/geoquiz-services/internal/comm"
	"github.com/avvvet/geoquiz-services/internal/db"
	"github.com/avvvet/geoquiz-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "archive"

func init() {
	config.LoadEnv(SERVICE_NAME)
	instanceId := config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId[:8])
}

func main() {
	cfg, err := archivesvc.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mongoDB, err := db.ConnectToDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())

	archive := archivesvc.NewArchive(mongoDB, cfg.Retention)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := archive.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to create archive indexes: %v", err)
	}
	cancel()

	n, err := nats.Connect(SERVICE_NAME + "-service")
	if err != nil {
		log.Fatalf("Error: unable to connect to NATS server %v", err)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	b := archivesvc.NewBroker(n.Conn, archive)
	sub, err := b.QueueSubscribe(comm.GameServiceSubject, cfg.Queue)
	if err != nil {
		log.Fatalf("Error: unable to subscribe to queue %v", err)
	}
	log.Infof("%s service consuming %s in queue %s", SERVICE_NAME, comm.GameServiceSubject, cfg.Queue)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if err := sub.Drain(); err != nil {
		log.Errorf("drain subscription: %v", err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
