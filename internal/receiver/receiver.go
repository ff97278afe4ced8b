package receiver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sys/unix"

	"github.com/relabs-tech/imu_telemetry/internal/telemetry"
	"github.com/relabs-tech/imu_telemetry/internal/window"
)

var (
	datagramsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imu_datagrams_received_total",
		Help: "Total number of UDP datagrams received",
	})

	decodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imu_decode_failures_total",
		Help: "Total number of datagrams dropped because decoding failed",
	})

	windowSamples = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "imu_window_samples",
		Help: "Number of samples currently held in the sliding window",
	})
)

// Largest payload one receive call reads. Anything longer is truncated
// by the transport and then rejected by the JSON decoder.
const maxDatagram = 1024

// How long one blocking receive may wait before the loop regains
// control to check for cancellation. Purely a liveness bound, no
// effect on the data.
const readTimeout = 1 * time.Second

// Receiver owns the UDP socket and feeds decoded samples into the
// window buffer. Exactly one goroutine runs its receive loop.
type Receiver struct {
	conn *net.UDPConn
	dec  *telemetry.Decoder
	buf  *window.Buffer

	// onSample, when set, is called after each successful append,
	// outside the buffer's lock. The bridge hangs its MQTT publish
	// here.
	onSample func(telemetry.Sample)
}

// Option adjusts a Receiver at construction.
type Option func(*Receiver)

// WithSampleHook registers fn to run for every appended sample.
func WithSampleHook(fn func(telemetry.Sample)) Option {
	return func(r *Receiver) { r.onSample = fn }
}

// New binds 0.0.0.0:port with address reuse enabled. A bind failure
// (port in use, bad port) is unrecoverable and returned here, before
// any receiving begins; it is the only error the receiver surfaces.
func New(port int, dec *telemetry.Decoder, buf *window.Buffer, opts ...Option) (*Receiver, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	pc, err := lc.ListenPacket(context.Background(), "udp", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind UDP port %d: %w", port, err)
	}

	r := &Receiver{
		conn: pc.(*net.UDPConn),
		dec:  dec,
		buf:  buf,
	}
	for _, opt := range opts {
		opt(r)
	}

	log.Printf("listening on UDP %s", r.conn.LocalAddr())
	return r, nil
}

// Addr returns the bound local address, useful when port 0 was given.
func (r *Receiver) Addr() net.Addr { return r.conn.LocalAddr() }

// Run receives datagrams until ctx is cancelled or the socket is
// closed. Malformed datagrams are counted and dropped; a live sensor
// stream is expected to carry noise and it must not halt ingestion.
func (r *Receiver) Run(ctx context.Context) error {
	payload := make([]byte, maxDatagram)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if err := r.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}

		n, _, err := r.conn.ReadFromUDP(payload)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue // liveness tick, loop to recheck ctx
			}
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("udp receive: %w", err)
		}
		datagramsReceived.Inc()

		sample, err := r.dec.Decode(payload[:n])
		if err != nil {
			decodeFailures.Inc()
			continue
		}

		r.buf.Append(sample)
		windowSamples.Set(float64(r.buf.Len()))
		if r.onSample != nil {
			r.onSample(sample)
		}
	}
}

// Close releases the socket. A pending blocking receive unblocks with
// net.ErrClosed, which Run treats as a clean stop.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
