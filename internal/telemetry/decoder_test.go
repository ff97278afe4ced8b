package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referencePayload = `{"roll":0.1,"pitch":-0.2,"temp":36.5,` +
	`"gyro":{"x":0,"y":0,"z":0},"acc":{"x":0,"y":0,"z":1}}`

func TestDecodeReferencePayload(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dec := NewDecoderWithClock(func() time.Time { return ts })

	s, err := dec.Decode([]byte(referencePayload))
	require.NoError(t, err)

	assert.Equal(t, ts, s.Time, "timestamp must come from the decoder clock")
	assert.Equal(t, Rotation{Roll: 0.1, Pitch: -0.2}, s.Rot())
	assert.Equal(t, 36.5, s.Temp)
	assert.Equal(t, ThreeVector{X: 0, Y: 0, Z: 0}, s.Gyro)
	assert.Equal(t, ThreeVector{X: 0, Y: 0, Z: 1}, s.Acc, "acceleration stays in raw sensor units")
}

func TestDecodeMissingField(t *testing.T) {
	dec := NewDecoder()

	cases := map[string]string{
		"missing temp": `{"roll":0.1,"pitch":-0.2,` +
			`"gyro":{"x":0,"y":0,"z":0},"acc":{"x":0,"y":0,"z":1}}`,
		"missing roll": `{"pitch":-0.2,"temp":36.5,` +
			`"gyro":{"x":0,"y":0,"z":0},"acc":{"x":0,"y":0,"z":1}}`,
		"missing gyro object": `{"roll":0.1,"pitch":-0.2,"temp":36.5,` +
			`"acc":{"x":0,"y":0,"z":1}}`,
		"missing acc component": `{"roll":0.1,"pitch":-0.2,"temp":36.5,` +
			`"gyro":{"x":0,"y":0,"z":0},"acc":{"x":0,"y":0}}`,
		"non-numeric field": `{"roll":"a","pitch":-0.2,"temp":36.5,` +
			`"gyro":{"x":0,"y":0,"z":0},"acc":{"x":0,"y":0,"z":1}}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := dec.Decode([]byte(payload))
			assert.Error(t, err, "a partial payload must not produce a sample")
		})
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	dec := NewDecoder()

	_, err := dec.Decode([]byte(`{"roll":0.1,"pitch"`))
	assert.Error(t, err)

	_, err = dec.Decode(nil)
	assert.Error(t, err)
}

func TestDecodeRejectsNonFinite(t *testing.T) {
	dec := NewDecoder()

	// 1e999 overflows float64; whether encoding/json or the finite
	// check catches it, no sample may come out.
	payload := `{"roll":1e999,"pitch":-0.2,"temp":36.5,` +
		`"gyro":{"x":0,"y":0,"z":0},"acc":{"x":0,"y":0,"z":1}}`
	_, err := dec.Decode([]byte(payload))
	assert.Error(t, err)
}

func TestMeasurementFinite(t *testing.T) {
	m := Measurement{Temp: 36.5, Acc: ThreeVector{Z: 1}}
	assert.True(t, m.finite())

	m.Gyro.Y = nan()
	assert.False(t, m.finite())
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}
