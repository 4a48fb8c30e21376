// Package bands enumerates the Landsat 8 spectral bands.
package bands

import "fmt"

// All returns the eleven Landsat 8 band labels, in sensor order.
func All() []string {
	return []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}
}

// Valid reports whether label names a known band.
func Valid(label string) bool {
	for _, b := range All() {
		if b == label {
			return true
		}
	}
	return false
}

// Validate checks a requested band sequence: every label must be a known
// band and no label may repeat.
func Validate(labels []string) error {
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if !Valid(label) {
			return fmt.Errorf("unknown band %q (valid bands: 1-11)", label)
		}
		if seen[label] {
			return fmt.Errorf("band %q requested twice", label)
		}
		seen[label] = true
	}
	return nil
}
