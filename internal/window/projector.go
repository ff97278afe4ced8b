package window

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/relabs-tech/imu_telemetry/internal/telemetry"
)

// AccelScale converts stored raw g-like acceleration into signed m/s².
// The sign flip is a deliberate convention of this system; keep it.
const AccelScale = -9.8

// Channel selects which measurement kind a projection extracts. The
// enumeration is closed: adding a channel means adding a case to the
// switches below, there is no dynamic field lookup.
type Channel int

const (
	ChannelTemp Channel = iota
	ChannelRot
	ChannelGyro
	ChannelAcc
)

// ParseChannel maps a config value onto a Channel. Accepted names are
// the wire names: temp, rot, gyro, acc.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "temp":
		return ChannelTemp, nil
	case "rot":
		return ChannelRot, nil
	case "gyro":
		return ChannelGyro, nil
	case "acc":
		return ChannelAcc, nil
	default:
		return 0, fmt.Errorf("unknown channel %q (want temp, rot, gyro or acc)", s)
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelTemp:
		return "temp"
	case ChannelRot:
		return "rot"
	case ChannelGyro:
		return "gyro"
	case ChannelAcc:
		return "acc"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Labels returns one legend label per series of the channel.
func (c Channel) Labels() []string {
	switch c {
	case ChannelTemp:
		return []string{"temp"}
	case ChannelRot:
		return []string{"roll", "pitch"}
	case ChannelGyro:
		return []string{"gyro.x", "gyro.y", "gyro.z"}
	case ChannelAcc:
		return []string{"acc.x", "acc.y", "acc.z"}
	default:
		return nil
	}
}

// Unit returns the display unit of the channel's values.
func (c Channel) Unit() string {
	switch c {
	case ChannelTemp:
		return "°C"
	case ChannelRot:
		return "rad"
	case ChannelGyro:
		return "rad/s"
	case ChannelAcc:
		return "m/s²"
	default:
		return ""
	}
}

// Channels lists every channel, in wire order.
func Channels() []Channel {
	return []Channel{ChannelTemp, ChannelRot, ChannelGyro, ChannelAcc}
}

// extract pulls the channel's values out of one sample, already unit
// converted. One entry per series, aligned with Labels.
func (c Channel) extract(s telemetry.Sample) []float64 {
	switch c {
	case ChannelTemp:
		return []float64{s.Temp}
	case ChannelRot:
		return []float64{s.Roll, s.Pitch}
	case ChannelGyro:
		return []float64{s.Gyro.X, s.Gyro.Y, s.Gyro.Z}
	case ChannelAcc:
		return []float64{s.Acc.X * AccelScale, s.Acc.Y * AccelScale, s.Acc.Z * AccelScale}
	default:
		panic(fmt.Sprintf("extract on invalid channel %d", int(c)))
	}
}

// Series is one projected channel: timestamps relative to the buffer
// start, one value slice per series, and axis ranges a renderer can
// apply directly.
type Series struct {
	Channel string      `json:"channel"`
	Unit    string      `json:"unit"`
	Labels  []string    `json:"labels"`
	Time    []float64   `json:"time"`   // seconds since buffer start
	Values  [][]float64 `json:"values"` // values[series][i] aligns with Time[i]
	XRange  [2]float64  `json:"x_range"`
	YRange  [2]float64  `json:"y_range"`
}

// Projector turns buffer snapshots into aligned plottable series. It is
// a pure function of its inputs; construction just fixes the time base.
type Projector struct {
	start  time.Time
	window time.Duration
}

// NewProjector builds a projector on the buffer's time base.
func NewProjector(b *Buffer) *Projector {
	return &Projector{start: b.Start(), window: b.Window()}
}

// Project extracts the requested channel from a snapshot. A snapshot of
// one sample or fewer carries nothing worth plotting: the second return
// is false and the caller should treat the tick as a no-op.
func (p *Projector) Project(snap []telemetry.Sample, c Channel) (Series, bool) {
	if len(snap) <= 1 {
		return Series{}, false
	}

	labels := c.Labels()
	out := Series{
		Channel: c.String(),
		Unit:    c.Unit(),
		Labels:  labels,
		Time:    make([]float64, len(snap)),
		Values:  make([][]float64, len(labels)),
	}
	for i := range out.Values {
		out.Values[i] = make([]float64, len(snap))
	}

	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for i, s := range snap {
		out.Time[i] = s.Time.Sub(p.start).Seconds()
		for j, v := range c.extract(s) {
			out.Values[j][i] = v
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}

	// X: stay at [0, window] until the trace reaches the right edge,
	// then follow the newest sample. The shared Y scale spans every
	// series of the channel, padded by 10% of the extreme magnitudes.
	windowSec := p.window.Seconds()
	if newest := out.Time[len(out.Time)-1]; newest >= windowSec {
		out.XRange = [2]float64{out.Time[0], newest}
	} else {
		out.XRange = [2]float64{0, windowSec}
	}
	out.YRange = [2]float64{
		minV - 0.1*math.Abs(minV),
		maxV + 0.1*math.Abs(maxV),
	}

	return out, true
}
