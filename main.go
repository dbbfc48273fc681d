package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"iothome/internal/cache"
	"iothome/internal/config"
	"iothome/internal/db"
	"iothome/internal/hub"
	"iothome/internal/mqtt"
	"iothome/internal/scheduler"
	"iothome/internal/simulator"
	"iothome/internal/utils"
	"iothome/internal/web"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogging(cfg.LogLevel)

	ctx := context.Background()
	dbConn, err := db.NewDB(ctx, cfg.MongoURL, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer dbConn.Close(ctx)

	snapshots := cache.New(cfg.RedisAddr)
	defer snapshots.Close()

	wsHub := hub.New()
	broadcast := hub.Fanout{wsHub}

	// Event mirror is optional; the backend runs without a broker
	if cfg.MQTTBroker != "" {
		mqttClient, err := mqtt.NewMQTTClient(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.Printf("Failed to connect to MQTT, events not mirrored: %v", err)
		} else {
			defer mqttClient.Disconnect(250)
			broadcast = append(broadcast, mqtt.NewEventPublisher(mqttClient, cfg.MQTTEventTopic))
		}
	}

	sim := simulator.New(dbConn, broadcast, snapshots)

	// The store holds the durable copy; hydrate the registry from it
	devices, err := dbConn.GetAllDevices(ctx)
	if err != nil {
		log.Fatalf("Failed to load devices: %v", err)
	}
	for _, device := range devices {
		sim.Add(device)
	}
	log.Printf("Loaded %d devices into simulator", len(devices))

	sim.Start()

	sched := scheduler.NewScheduler(dbConn, sim)
	sched.Start()

	webServer := web.NewWebServer(dbConn, sim, wsHub, snapshots, cfg.CORSOriginList())
	go webServer.Start(cfg.ListenAddr)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	sim.Stop()
	sched.Stop()
	log.Println("Shutdown complete")
}
