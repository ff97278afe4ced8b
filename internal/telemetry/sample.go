package telemetry

import "time"

// ThreeVector is a basic x/y/z reading.
type ThreeVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation holds roll and pitch in radians.
type Rotation struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
}

// Measurement is one MPU-6050 reading as it travels on the wire.
// Acceleration is kept in raw g-like sensor units; conversion to m/s²
// happens at projection time, not here.
type Measurement struct {
	Roll  float64     `json:"roll"`  // rad
	Pitch float64     `json:"pitch"` // rad
	Temp  float64     `json:"temp"`  // °C
	Gyro  ThreeVector `json:"gyro"`  // rad/s
	Acc   ThreeVector `json:"acc"`   // raw g units
}

// Rot returns the measurement's orientation pair.
func (m Measurement) Rot() Rotation {
	return Rotation{Roll: m.Roll, Pitch: m.Pitch}
}

// Source is anything that can provide measurements over time: the
// MPU-6050 driver in internal/sensors, or the mock waveform source for
// running without hardware.
type Source interface {
	Next() (Measurement, error)
}

// Sample is a fully decoded measurement stamped with the local time it
// was received. Samples are immutable once constructed: the decoder
// either produces a complete one or none at all.
type Sample struct {
	Time time.Time
	Measurement
}
