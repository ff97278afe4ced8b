package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/imu_telemetry/internal/telemetry"
)

func newTestProjector(windowSec int) (*Buffer, *Projector) {
	buf := NewBuffer(time.Duration(windowSec)*time.Second, fixedClock)
	return buf, NewProjector(buf)
}

func TestParseChannel(t *testing.T) {
	for _, name := range []string{"temp", "rot", "gyro", "acc", "ACC", " Gyro "} {
		_, err := ParseChannel(name)
		assert.NoError(t, err, name)
	}

	_, err := ParseChannel("magnetometer")
	assert.Error(t, err)
}

func TestChannelShapes(t *testing.T) {
	assert.Equal(t, []string{"temp"}, ChannelTemp.Labels())
	assert.Equal(t, []string{"roll", "pitch"}, ChannelRot.Labels())
	assert.Equal(t, []string{"gyro.x", "gyro.y", "gyro.z"}, ChannelGyro.Labels())
	assert.Equal(t, []string{"acc.x", "acc.y", "acc.z"}, ChannelAcc.Labels())
	assert.Equal(t, "acc", ChannelAcc.String())
	assert.Len(t, Channels(), 4)
}

func TestProjectInsufficientData(t *testing.T) {
	_, proj := newTestProjector(10)

	for _, c := range Channels() {
		_, ok := proj.Project(nil, c)
		assert.False(t, ok, "empty snapshot must be a no-op tick")

		_, ok = proj.Project([]telemetry.Sample{sampleAt(0, 0)}, c)
		assert.False(t, ok, "single-point snapshot must be a no-op tick")
	}
}

func TestProjectAccelUnitConversion(t *testing.T) {
	_, proj := newTestProjector(10)

	snap := []telemetry.Sample{
		{Time: testStart, Measurement: telemetry.Measurement{Acc: telemetry.ThreeVector{Z: 1}}},
		{Time: testStart.Add(time.Second), Measurement: telemetry.Measurement{Acc: telemetry.ThreeVector{Z: 1}}},
	}

	series, ok := proj.Project(snap, ChannelAcc)
	require.True(t, ok)
	require.Len(t, series.Values, 3)

	for i := range snap {
		assert.Equal(t, 0.0, series.Values[0][i])
		assert.Equal(t, 0.0, series.Values[1][i])
		assert.Equal(t, -9.8, series.Values[2][i], "raw 1g must project to -9.8 m/s²")
	}
}

func TestProjectRelativeTimestamps(t *testing.T) {
	_, proj := newTestProjector(10)

	snap := []telemetry.Sample{
		sampleAt(2*time.Second, 0),
		sampleAt(3*time.Second, 1),
		sampleAt(4500*time.Millisecond, 2),
	}

	series, ok := proj.Project(snap, ChannelTemp)
	require.True(t, ok)
	assert.Equal(t, []float64{2, 3, 4.5}, series.Time, "x axis is seconds since buffer start")
}

func TestProjectXRange(t *testing.T) {
	_, proj := newTestProjector(10)

	// Newest still inside the window: fixed [0, window].
	series, ok := proj.Project([]telemetry.Sample{
		sampleAt(1*time.Second, 0),
		sampleAt(4*time.Second, 1),
	}, ChannelTemp)
	require.True(t, ok)
	assert.Equal(t, [2]float64{0, 10}, series.XRange)

	// Newest has reached the window width: follow the data.
	series, ok = proj.Project([]telemetry.Sample{
		sampleAt(5*time.Second, 0),
		sampleAt(14*time.Second, 1),
	}, ChannelTemp)
	require.True(t, ok)
	assert.Equal(t, [2]float64{5, 14}, series.XRange)
}

func TestProjectYRangeSharedAcrossSeries(t *testing.T) {
	_, proj := newTestProjector(10)

	// Roll spans [-2, 1], pitch spans [0.5, 4]: the shared scale must
	// cover [-2, 4] with 10% padding of the extreme magnitudes.
	snap := []telemetry.Sample{
		{Time: testStart, Measurement: telemetry.Measurement{Roll: -2, Pitch: 0.5}},
		{Time: testStart.Add(time.Second), Measurement: telemetry.Measurement{Roll: 1, Pitch: 4}},
	}

	series, ok := proj.Project(snap, ChannelRot)
	require.True(t, ok)
	assert.InDelta(t, -2.2, series.YRange[0], 1e-9)
	assert.InDelta(t, 4.4, series.YRange[1], 1e-9)
}

func TestProjectRotationValues(t *testing.T) {
	_, proj := newTestProjector(10)

	snap := []telemetry.Sample{
		{Time: testStart, Measurement: telemetry.Measurement{Roll: 0.1, Pitch: -0.2}},
		{Time: testStart.Add(time.Second), Measurement: telemetry.Measurement{Roll: 0.2, Pitch: -0.1}},
	}

	series, ok := proj.Project(snap, ChannelRot)
	require.True(t, ok)
	assert.Equal(t, []float64{0.1, 0.2}, series.Values[0])
	assert.Equal(t, []float64{-0.2, -0.1}, series.Values[1])
	assert.Equal(t, "rad", series.Unit)
}
