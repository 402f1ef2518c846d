package domain

// Notification identifies one newly created raw object. It is the unit of
// work handed to the trigger handler.
type Notification struct {
	Bucket string
	Key    string

	// Ack reports successful (or deliberately ignored) processing back to
	// the notification source. Leaving a notification unacked lets the
	// source redeliver it.
	Ack func() error
}

// Outcome summarizes one batch-processing invocation.
type Outcome struct {
	Transformed int
	Skipped     int
}

// Partial reports whether any records were dropped during transformation.
func (o Outcome) Partial() bool {
	return o.Skipped > 0
}
