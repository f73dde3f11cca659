package ledger

import "fmt"

// ValidationError reports which precondition an OpenPosition call failed.
// The trade is a no-op when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade: %s %s", e.Field, e.Reason)
}
