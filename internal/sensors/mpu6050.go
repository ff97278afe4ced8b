// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package sensors

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/imu_telemetry/internal/telemetry"
)

type mpu6050 struct {
	dev        i2c.Dev
	bus        i2c.BusCloser
	accelScale float64 // LSB per g
	gyroScale  float64 // LSB per °/s
}

// NewMPU6050 initializes an MPU-6050 on the given I²C bus (empty name
// selects the first available bus). The device is woken out of sleep,
// identity-checked, and configured with the given full-scale ranges
// (0-3, see config).
func NewMPU6050(busName string, addr uint16, accelRange, gyroRange byte) (telemetry.Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("MPU-6050: periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("MPU-6050: open I2C bus %q: %w", busName, err)
	}

	m := &mpu6050{
		dev:        i2c.Dev{Addr: addr, Bus: bus},
		bus:        bus,
		accelScale: accelSensitivity[accelRange],
		gyroScale:  gyroSensitivity[gyroRange],
	}

	id, err := m.readRegister(regWhoAmI)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("MPU-6050: read WHO_AM_I: %w", err)
	}
	if id != whoAmIValue {
		bus.Close()
		return nil, fmt.Errorf("MPU-6050: WHO_AM_I = 0x%02X, want 0x%02X", id, whoAmIValue)
	}

	// Wake out of sleep, PLL with X-axis gyro as clock source.
	if err := m.writeRegister(regPwrMgmt1, 0x01); err != nil {
		bus.Close()
		return nil, fmt.Errorf("MPU-6050: wake: %w", err)
	}

	if err := m.writeRegister(regAccelConfig, accelRange<<3); err != nil {
		bus.Close()
		return nil, fmt.Errorf("MPU-6050: set accel range: %w", err)
	}
	log.Printf("MPU-6050: accelerometer range set to %d (±%dg)", accelRange, []int{2, 4, 8, 16}[accelRange])

	if err := m.writeRegister(regGyroConfig, gyroRange<<3); err != nil {
		bus.Close()
		return nil, fmt.Errorf("MPU-6050: set gyro range: %w", err)
	}
	log.Printf("MPU-6050: gyroscope range set to %d (±%d°/s)", gyroRange, []int{250, 500, 1000, 2000}[gyroRange])

	return m, nil
}

// Next performs the 14-byte burst read (accel, temp, gyro) and converts
// to the units the wire format carries: accel in g, gyro in rad/s, temp
// in °C, roll/pitch in radians from accelerometer tilt.
func (m *mpu6050) Next() (telemetry.Measurement, error) {
	raw := make([]byte, 14)
	if err := m.dev.Tx([]byte{regAccelXOutH}, raw); err != nil {
		return telemetry.Measurement{}, fmt.Errorf("MPU-6050: burst read: %w", err)
	}

	word := func(i int) int16 {
		return int16(binary.BigEndian.Uint16(raw[i:]))
	}

	acc := telemetry.ThreeVector{
		X: float64(word(0)) / m.accelScale,
		Y: float64(word(2)) / m.accelScale,
		Z: float64(word(4)) / m.accelScale,
	}
	// Datasheet formula for the on-die thermometer.
	temp := float64(word(6))/340.0 + 36.53
	gyro := telemetry.ThreeVector{
		X: float64(word(8)) / m.gyroScale * math.Pi / 180,
		Y: float64(word(10)) / m.gyroScale * math.Pi / 180,
		Z: float64(word(12)) / m.gyroScale * math.Pi / 180,
	}

	rot := telemetry.TiltFromAccel(acc)

	return telemetry.Measurement{
		Roll:  rot.Roll,
		Pitch: rot.Pitch,
		Temp:  temp,
		Gyro:  gyro,
		Acc:   acc,
	}, nil
}

// Close releases the I²C bus.
func (m *mpu6050) Close() error {
	return m.bus.Close()
}

func (m *mpu6050) readRegister(reg byte) (byte, error) {
	out := make([]byte, 1)
	if err := m.dev.Tx([]byte{reg}, out); err != nil {
		return 0, err
	}
	return out[0], nil
}

func (m *mpu6050) writeRegister(reg, value byte) error {
	return m.dev.Tx([]byte{reg, value}, nil)
}
