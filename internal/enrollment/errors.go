package enrollment

// ValidationError reports a failed precondition. No state changes and no
// event is emitted when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
