package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/relabs-tech/imu_telemetry/internal/config"
	"github.com/relabs-tech/imu_telemetry/internal/receiver"
	"github.com/relabs-tech/imu_telemetry/internal/telemetry"
	"github.com/relabs-tech/imu_telemetry/internal/window"
)

// RunConsole ingests UDP telemetry and prints a formatted line per
// channel at a fixed interval, a terminal stand-in for the plotter.
func RunConsole() error {
	cfg := config.Get()

	buf := window.NewBuffer(time.Duration(cfg.WindowSeconds)*time.Second, time.Now)
	proj := window.NewProjector(buf)

	rcv, err := receiver.New(cfg.UDPPort, telemetry.NewDecoder(), buf)
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

	ticker := time.NewTicker(time.Duration(cfg.ConsoleLogInterval) * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	log.Printf("console: %ds window on UDP port %d", cfg.WindowSeconds, cfg.UDPPort)

	for {
		select {
		case <-sigCh:
			log.Println("console: shutting down")
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap := buf.Snapshot()
			for _, c := range window.Channels() {
				series, ok := proj.Project(snap, c)
				if !ok {
					continue // window not warm yet
				}
				printSeriesLine(series)
			}
		}
	}
}

// printSeriesLine prints the newest value of every series of one
// projected channel, e.g.
//
//	[GYRO] gyro.x= 0.123 gyro.y=-0.045 gyro.z= 0.001 rad/s (n=241, t= 12.4s)
func printSeriesLine(s window.Series) {
	n := len(s.Time)
	line := fmt.Sprintf("[%-4s]", strings.ToUpper(s.Channel))
	for i, label := range s.Labels {
		line += fmt.Sprintf(" %s=%7.3f", label, s.Values[i][n-1])
	}
	fmt.Printf("%s %s (n=%d, t=%6.1fs)\n", line, s.Unit, n, s.Time[n-1])
}
