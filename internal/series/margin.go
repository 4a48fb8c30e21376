package series

// RegistrationMarginMeters widens each crop dimension while registration is
// pending, so alignment can shift content by several pixels without clipping
// it at the edges. The margin is trimmed off once registration completes.
const RegistrationMarginMeters = 100.0

// WorkingSize returns the crop size to acquire at. When registering it adds
// the safety margin to both dimensions; otherwise the working size is the
// target size.
func WorkingSize(widthM, heightM float64, register bool) (float64, float64) {
	if register {
		return widthM + RegistrationMarginMeters, heightM + RegistrationMarginMeters
	}
	return widthM, heightM
}
