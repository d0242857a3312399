// Package types contains common types used across the application.
package types

import "fmt"

// TestType identifies one of the cognitive tests.
type TestType string

// Supported test types.
const (
	Reaction TestType = "reaction" // reaction time, milliseconds
	Memory   TestType = "memory"   // digit span, digits
	Visual   TestType = "visual"   // visual memory, levels
	Typing   TestType = "typing"   // typing speed, WPM
	Sequence TestType = "sequence" // sequence memory, levels
	Chimp    TestType = "chimp"    // chimp test, numbers
	Aim      TestType = "aim"      // aim trainer, points
	Stroop   TestType = "stroop"   // Stroop test, points
	Schulte  TestType = "schulte"  // Schulte grid, points
)

// all lists every supported test type in declaration order.
var all = []TestType{
	Reaction, Memory, Visual, Typing, Sequence, Chimp, Aim, Stroop, Schulte,
}

// All returns every supported test type.
func All() []TestType {
	out := make([]TestType, len(all))
	copy(out, all)
	return out
}

// Valid reports whether t is a supported test type.
func (t TestType) Valid() bool {
	for _, known := range all {
		if t == known {
			return true
		}
	}
	return false
}

// LowerIsBetter reports the ordering direction for t. Reaction times improve
// downward; every other test improves upward.
func (t TestType) LowerIsBetter() bool {
	return t == Reaction
}

// String returns the wire name of the test type.
func (t TestType) String() string {
	return string(t)
}

// Parse converts a wire name into a TestType, rejecting unknown names.
func Parse(s string) (TestType, error) {
	t := TestType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown test type: %q", s)
	}
	return t, nil
}
