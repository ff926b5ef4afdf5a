package utils

import "testing"

// TestIsPowerOfTwo tests the IsPowerOfTwo function
func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected bool
	}{
		{"zero", 0, false},
		{"negative", -1, false},
		{"one", 1, true},
		{"two", 2, true},
		{"three", 3, false},
		{"sixteen", 16, true},
		{"large non-power", 1023, false},
		{"very large", 1 << 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsPowerOfTwo(tt.input); result != tt.expected {
				t.Errorf("IsPowerOfTwo(%d) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestLog2 tests the Log2 function
func TestLog2(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{1, 0},
		{2, 1},
		{16, 4},
		{1024, 10},
		{3, -1},
		{0, -1},
	}

	for _, tt := range tests {
		if result := Log2(tt.input); result != tt.expected {
			t.Errorf("Log2(%d) = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

// TestTraceLength tests padding to a power of two with a floor
func TestTraceLength(t *testing.T) {
	tests := []struct {
		rows, min, expected int
	}{
		{0, 16, 16},
		{1, 16, 16},
		{16, 16, 16},
		{17, 16, 32},
		{88, 16, 128},
		{100, 256, 256},
	}

	for _, tt := range tests {
		if result := TraceLength(tt.rows, tt.min); result != tt.expected {
			t.Errorf("TraceLength(%d, %d) = %d, expected %d", tt.rows, tt.min, result, tt.expected)
		}
		if NextPowerOfTwo(tt.rows) < tt.rows {
			t.Errorf("NextPowerOfTwo(%d) is below its input", tt.rows)
		}
	}
}
