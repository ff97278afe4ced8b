package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relabs-tech/imu_telemetry/internal/config"
	"github.com/relabs-tech/imu_telemetry/internal/receiver"
	"github.com/relabs-tech/imu_telemetry/internal/telemetry"
	"github.com/relabs-tech/imu_telemetry/internal/window"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The plotter page is served from this same process; no cross-origin
	// renderers are expected.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RunPlotter ingests UDP telemetry into a sliding window and serves the
// browser plotter: a JSON pull endpoint per channel, a WebSocket that
// pushes the projected series at a fixed cadence, and the static
// front-end from ./web.
func RunPlotter() error {
	cfg := config.Get()

	defaultChannel, err := window.ParseChannel(cfg.Channel)
	if err != nil {
		return err
	}

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

	router := mux.NewRouter()

	// Latest projection of one channel, pull model: the caller decides
	// the cadence. 503 while the window has too little to plot.
	serveSeries := func(w http.ResponseWriter, r *http.Request, c window.Channel) {
		series, ok := proj.Project(buf.Snapshot(), c)
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(series); err != nil {
			log.Printf("json encode error: %v", err)
		}
	}

	router.HandleFunc("/api/series", func(w http.ResponseWriter, r *http.Request) {
		serveSeries(w, r, defaultChannel)
	}).Methods("GET")

	router.HandleFunc("/api/series/{channel}", func(w http.ResponseWriter, r *http.Request) {
		c, err := window.ParseChannel(mux.Vars(r)["channel"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		serveSeries(w, r, c)
	}).Methods("GET")

	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		c := defaultChannel
		if name := r.URL.Query().Get("channel"); name != "" {
			parsed, err := window.ParseChannel(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			c = parsed
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("plotter client connected: %s (channel %s)", conn.RemoteAddr(), c)

		ticker := time.NewTicker(time.Duration(cfg.WebPushInterval) * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				series, ok := proj.Project(buf.Snapshot(), c)
				if !ok {
					continue // not enough samples yet, skip this tick
				}
				if err := conn.WriteJSON(series); err != nil {
					log.Printf("plotter client gone: %v", err)
					return
				}
			}
		}
	})

	router.Handle("/metrics", promhttp.Handler())
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("web")))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler: router,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigCh:
			log.Println("plotter: shutting down")
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown error: %v", err)
		}
	}()

	log.Printf("plotter listening on http://0.0.0.0:%d (default channel %s)", cfg.WebServerPort, defaultChannel)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
