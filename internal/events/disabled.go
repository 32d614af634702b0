package events

// DisabledPublisher silently drops all events. Used when no broker is
// configured.
type DisabledPublisher struct{}

// NewDisabledPublisher creates a publisher that does nothing.
func NewDisabledPublisher() *DisabledPublisher {
	return &DisabledPublisher{}
}

// Publish discards the event.
func (*DisabledPublisher) Publish(Event) error { return nil }

// PublishSystem discards the event.
func (*DisabledPublisher) PublishSystem(SystemEvent) error { return nil }

// Close is a no-op.
func (*DisabledPublisher) Close() error { return nil }

// IsConnected always reports false.
func (*DisabledPublisher) IsConnected() bool { return false }
