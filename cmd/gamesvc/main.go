package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/avvvet/geoquiz-services/configs"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/broker"
	gamecfg "github.com/avvvet/geoquiz-services/internal/gamesvc/config"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/db"
	handlers "github.com/avvvet/geoquiz-services/internal/gamesvc/handlers"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/service"
	"github.com/avvvet/geoquiz-services/internal/gamesvc/store"
	nats "github.com/avvvet/geoquiz-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "game"

func init() {
	config.LoadEnv(SERVICE_NAME)
	instanceId := config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId[:8])
}

func main() {
	cfg, err := gamecfg.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// pg connection
	dbpool, err := db.Connect(cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	// NATS is optional, events are dropped without it
	var events *broker.Broker
	n, err := nats.Connect(SERVICE_NAME + "-service")
	if err != nil {
		log.Warnf("unable to connect to NATS server, game events disabled: %v", err)
		events = broker.NewBroker(nil)
	} else {
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)
		events = broker.NewBroker(n.Conn)
	}

	tx := store.NewTxManager(dbpool)
	stores := service.NewStores()
	categoryService := service.NewCategoryService(tx, stores, cfg.ImageBaseURL)
	gameService := service.NewGameService(tx, stores, categoryService, events)
	userService := service.NewUserService(tx, stores)
	leaderboardService := service.NewLeaderboardService(tx, stores, cfg.LeaderboardLimit, cfg.LeaderboardMaxLimit)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(gameService, categoryService, userService, leaderboardService)
	h.InitAuth(cfg.JWTSecret, cfg.TokenTTL)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
