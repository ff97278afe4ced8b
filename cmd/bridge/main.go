package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/imu_telemetry/internal/app"
	"github.com/relabs-tech/imu_telemetry/internal/config"
)

func main() {
	configPath := flag.String("config", "./imu_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting imu-telemetry bridge (UDP → MQTT)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunBridge(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
