package window

import (
	"sync"
	"time"

	"github.com/relabs-tech/imu_telemetry/internal/telemetry"
)

// Buffer is a time-bounded ordered buffer of samples, the single point
// of synchronization between the receiver goroutine and the renderer.
// All operations take one mutex; none of them holds it across I/O.
//
// Size is bounded only by the time window: a burst of datagrams inside
// one window is kept in full, without shedding.
type Buffer struct {
	mu      sync.Mutex
	samples []telemetry.Sample
	latest  time.Time // newest timestamp ever appended, eviction reference

	window time.Duration
	start  time.Time
}

// NewBuffer creates a buffer holding the trailing window of samples.
// The start time, fixed here, is the zero of all relative timestamps
// produced by the projector.
func NewBuffer(window time.Duration, now func() time.Time) *Buffer {
	if now == nil {
		now = time.Now
	}
	return &Buffer{
		window: window,
		start:  now(),
	}
}

// Append adds a sample at the ordered end and evicts from the front
// every sample older than the window behind the newest timestamp seen.
// The eviction reference only ever advances, so a reading arriving out
// of order cannot widen the window again.
func (b *Buffer) Append(s telemetry.Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples = append(b.samples, s)
	if s.Time.After(b.latest) {
		b.latest = s.Time
	}

	cutoff := b.latest.Add(-b.window)
	i := 0
	for i < len(b.samples) && b.samples[i].Time.Before(cutoff) {
		i++
	}
	if i > 0 {
		b.samples = append(b.samples[:0], b.samples[i:]...)
	}
}

// Snapshot returns an independent copy of the current contents, oldest
// first. The lock is held only for the duration of the copy; callers
// are free to compute or render on the result without blocking the
// receiver. Sample is a plain value type, so the shallow copy shares
// nothing with the buffer's storage.
func (b *Buffer) Snapshot() []telemetry.Sample {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]telemetry.Sample, len(b.samples))
	copy(out, b.samples)
	return out
}

// Len reports the number of samples currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Start returns the fixed construction time of the buffer.
func (b *Buffer) Start() time.Time { return b.start }

// Window returns the configured sliding-window width.
func (b *Buffer) Window() time.Duration { return b.window }
