package geom

import "fmt"

// Relation is the comparison a constraint expresses.
type Relation int

const (
	Equal Relation = iota
	GreaterOrEqual
	LessOrEqual
)

func (r Relation) String() string {
	switch r {
	case Equal:
		return "="
	case GreaterOrEqual:
		return "≥"
	case LessOrEqual:
		return "≤"
	}
	return fmt.Sprintf("Relation(%d)", int(r))
}

// ParseRelation accepts "=", "==", "≥", ">=", "≤" and "<=".
func ParseRelation(s string) (Relation, error) {
	switch s {
	case "=", "==":
		return Equal, nil
	case "≥", ">=":
		return GreaterOrEqual, nil
	case "≤", "<=":
		return LessOrEqual, nil
	}
	return Equal, fmt.Errorf("unknown relation %q", s)
}

// Priority orders constraints for the solver. Values range from 1 to 1000.
type Priority float64

const (
	PriorityRequired Priority = 1000
	PriorityHigh     Priority = 750
	PriorityLow      Priority = 250
)
