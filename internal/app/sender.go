// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/imu_telemetry/internal/config"
	"github.com/relabs-tech/imu_telemetry/internal/sensors"
	"github.com/relabs-tech/imu_telemetry/internal/telemetry"
)

// RunSender reads the MPU-6050 at a fixed interval and emits each
// measurement as one JSON datagram to the configured UDP target. With
// IMU_USE_MOCK set it runs on a synthetic waveform instead of hardware.
func RunSender() error {
	cfg := config.Get()

	if cfg.SenderTarget == "" {
		return fmt.Errorf("SENDER_TARGET is required (IP:PORT)")
	}

	var src telemetry.Source
	if cfg.IMUUseMock {
		log.Println("sender: using mock measurement source")
		src = telemetry.NewMockSource()
	} else {
		real, err := sensors.NewMPU6050(cfg.IMUI2CBus, cfg.IMUI2CAddr, cfg.IMUAccelRange, cfg.IMUGyroRange)
		if err != nil {
			return err
		}
		src = real
	}

	conn, err := net.Dial("udp", cfg.SenderTarget)
	if err != nil {
		return fmt.Errorf("dial UDP target %s: %w", cfg.SenderTarget, err)
	}
	defer conn.Close()

	log.Printf("sender: logging measurements to UDP address %s every %dms", cfg.SenderTarget, cfg.SenderInterval)

	ticker := time.NewTicker(time.Duration(cfg.SenderInterval) * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			log.Println("sender: shutting down")
			return nil
		case <-ticker.C:
			m, err := src.Next()
			if err != nil {
				log.Printf("sender: measurement read error: %v", err)
				continue
			}

			payload, err := json.Marshal(m)
			if err != nil {
				log.Printf("sender: json marshal error: %v", err)
				continue
			}

			if _, err := conn.Write(payload); err != nil {
				log.Printf("sender: UDP write error: %v", err)
			}
		}
	}
}
