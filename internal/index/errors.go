package index

import "fmt"

// DataFormatError reports a dataset that violates the index invariants.
// It is fatal at startup.
type DataFormatError struct {
	Group  int // position of the offending group, -1 when not group specific
	Reason string
}

func (e *DataFormatError) Error() string {
	if e.Group < 0 {
		return "dataset format: " + e.Reason
	}
	return fmt.Sprintf("dataset format: group %d: %s", e.Group, e.Reason)
}

func formatErr(group int, format string, args ...any) error {
	return &DataFormatError{Group: group, Reason: fmt.Sprintf(format, args...)}
}
