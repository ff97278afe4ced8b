package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// wireVector mirrors ThreeVector with pointer fields so that absent
// components are distinguishable from zero.
type wireVector struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

type wireMeasurement struct {
	Roll  *float64    `json:"roll"`
	Pitch *float64    `json:"pitch"`
	Temp  *float64    `json:"temp"`
	Gyro  *wireVector `json:"gyro"`
	Acc   *wireVector `json:"acc"`
}

// Decoder turns raw datagram payloads into Samples. The timestamp is
// read from the decoder's clock at decode time, never from the payload,
// so windowing downstream is anchored to local receive time.
type Decoder struct {
	now func() time.Time
}

// NewDecoder returns a decoder stamping samples with time.Now.
func NewDecoder() *Decoder {
	return NewDecoderWithClock(time.Now)
}

// NewDecoderWithClock returns a decoder using the given clock. Tests
// supply a synthetic clock here.
func NewDecoderWithClock(now func() time.Time) *Decoder {
	return &Decoder{now: now}
}

// Decode parses one datagram payload. Malformed JSON, any missing or
// non-numeric required field, or a non-finite value yields an error and
// no Sample; a partially populated Sample never leaves this function.
func (d *Decoder) Decode(data []byte) (Sample, error) {
	ts := d.now()

	var w wireMeasurement
	if err := json.Unmarshal(data, &w); err != nil {
		return Sample{}, fmt.Errorf("malformed measurement payload: %w", err)
	}

	if w.Roll == nil || w.Pitch == nil || w.Temp == nil {
		return Sample{}, fmt.Errorf("measurement payload missing roll/pitch/temp")
	}
	gyro, err := w.Gyro.vector("gyro")
	if err != nil {
		return Sample{}, err
	}
	acc, err := w.Acc.vector("acc")
	if err != nil {
		return Sample{}, err
	}

	m := Measurement{
		Roll:  *w.Roll,
		Pitch: *w.Pitch,
		Temp:  *w.Temp,
		Gyro:  gyro,
		Acc:   acc,
	}
	if !m.finite() {
		return Sample{}, fmt.Errorf("measurement payload contains non-finite value")
	}

	return Sample{Time: ts, Measurement: m}, nil
}

func (v *wireVector) vector(name string) (ThreeVector, error) {
	if v == nil {
		return ThreeVector{}, fmt.Errorf("measurement payload missing %q", name)
	}
	if v.X == nil || v.Y == nil || v.Z == nil {
		return ThreeVector{}, fmt.Errorf("measurement payload %q missing x/y/z component", name)
	}
	return ThreeVector{X: *v.X, Y: *v.Y, Z: *v.Z}, nil
}

func (m Measurement) finite() bool {
	for _, v := range []float64{
		m.Roll, m.Pitch, m.Temp,
		m.Gyro.X, m.Gyro.Y, m.Gyro.Z,
		m.Acc.X, m.Acc.Y, m.Acc.Z,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
