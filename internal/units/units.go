package units

import (
	"fmt"
	"math"
)

// LegacyThreshold is the largest plausible room dimension in meters. Stored values above it
// come from builds that persisted millimeters.
const LegacyThreshold = 100

// MMToM converts millimeters to meters.
func MMToM(mm float64) float64 {
	return mm / 1000
}

// MToMM converts meters to millimeters.
func MToMM(m float64) float64 {
	return m * 1000
}

// MigrateLegacyMeters returns v in meters. Values above LegacyThreshold are read as
// millimeters and converted; migrated reports whether that happened.
// A deliberately huge room (over 100 m) is indistinguishable from a legacy value.
func MigrateLegacyMeters(v float64) (meters float64, migrated bool) {
	if v > LegacyThreshold {
		return MMToM(v), true
	}
	return v, false
}

// FormatMeters formats a length for display, e.g. "2.50 m".
func FormatMeters(m float64) string {
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return "-"
	}
	return fmt.Sprintf("%.2f m", m)
}

// FormatMM formats a millimeter length without decimals when it is whole, e.g. "300 mm", "2.5 mm".
func FormatMM(mm float64) string {
	if math.IsNaN(mm) || math.IsInf(mm, 0) {
		return "-"
	}
	if mm == math.Trunc(mm) {
		return fmt.Sprintf("%.0f mm", mm)
	}
	return fmt.Sprintf("%.1f mm", mm)
}
