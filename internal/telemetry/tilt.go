package telemetry

import "math"

// TiltFromAccel computes roll and pitch (radians) from an accelerometer
// reading using the standard tilt formulas:
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
//
// Valid while the sensor is near-static; high linear acceleration makes
// the estimate unreliable.
func TiltFromAccel(acc ThreeVector) Rotation {
	return Rotation{
		Roll:  math.Atan2(acc.Y, acc.Z),
		Pitch: math.Atan2(-acc.X, math.Sqrt(acc.Y*acc.Y+acc.Z*acc.Z)),
	}
}
