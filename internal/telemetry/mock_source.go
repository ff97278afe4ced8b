// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package telemetry

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a mock measurement source that generates
// smooth changing values, for running the sender without hardware.
func NewMockSource() Source {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) Next() (Measurement, error) {
	elapsed := time.Since(m.start).Seconds()

	acc := ThreeVector{
		X: 0.05 * math.Sin(elapsed),
		Y: 0.05 * math.Cos(elapsed*0.7),
		Z: 1 + 0.02*math.Sin(elapsed*1.3),
	}
	rot := TiltFromAccel(acc)

	return Measurement{
		Roll:  rot.Roll,
		Pitch: rot.Pitch,
		Temp:  36.5 + 0.5*math.Sin(elapsed*0.1),
		Gyro: ThreeVector{
			X: 0.3 * math.Cos(elapsed),
			Y: 0.2 * math.Sin(elapsed*0.7),
			Z: 0.1 * math.Sin(elapsed*0.4),
		},
		Acc: acc,
	}, nil
}
