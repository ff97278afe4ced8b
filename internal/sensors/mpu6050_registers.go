// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

// MPU-6050 register addresses (register map revision 4.2).
const (
	regSmplrtDiv   = 0x19 // Sample Rate Divider
	regConfig      = 0x1A // DLPF configuration
	regGyroConfig  = 0x1B // GYRO_FS_SEL in bits 4:3
	regAccelConfig = 0x1C // ACCEL_FS_SEL in bits 4:3
	regAccelXOutH  = 0x3B // start of the 14-byte accel/temp/gyro burst
	regPwrMgmt1    = 0x6B // clock source / sleep control
	regWhoAmI      = 0x75 // reads 0x68
)

const whoAmIValue = 0x68

// Full-scale sensitivities, indexed by the configured range.
var (
	// LSB per g: ±2g, ±4g, ±8g, ±16g
	accelSensitivity = [4]float64{16384, 8192, 4096, 2048}
	// LSB per °/s: ±250, ±500, ±1000, ±2000 °/s
	gyroSensitivity = [4]float64{131, 65.5, 32.8, 16.4}
)
