package app

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/imu_telemetry/internal/config"
	"github.com/relabs-tech/imu_telemetry/internal/receiver"
	"github.com/relabs-tech/imu_telemetry/internal/telemetry"
	"github.com/relabs-tech/imu_telemetry/internal/window"
)

// RunBridge ingests UDP telemetry and republishes every decoded sample
// onto MQTT, so subscribers elsewhere on the network get the stream
// without binding the UDP port themselves.
func RunBridge() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDBridge)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("bridge: connected to MQTT broker at %s", cfg.MQTTBroker)

	publish := func(s telemetry.Sample) {
		payload, err := json.Marshal(s.Measurement)
		if err != nil {
			log.Printf("bridge: sample marshal error: %v", err)
			return
		}
		if token := client.Publish(cfg.TopicSamples, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("bridge: MQTT publish error: %v", token.Error())
		}
	}

	buf := window.NewBuffer(time.Duration(cfg.WindowSeconds)*time.Second, time.Now)
	rcv, err := receiver.New(cfg.UDPPort, telemetry.NewDecoder(), buf,
		receiver.WithSampleHook(publish))
	if err != nil {
		return err
	}
	defer rcv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := rcv.Run(ctx); err != nil {
			log.Printf("receiver stopped: %v", err)
			cancel()
		}
	}()

	log.Printf("bridge: UDP port %d -> topic %s", cfg.UDPPort, cfg.TopicSamples)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("bridge: shutting down")
	case <-ctx.Done():
	}
	return nil
}
