package power

import "context"

// FakeHost is an in-memory HostAPI for tests. It records calls and can be
// told to fail.
type FakeHost struct {
	RebootCalls   int
	ShutdownCalls int
	Err           error
}

func (f *FakeHost) Reboot(_ context.Context) error {
	f.RebootCalls++
	return f.Err
}

func (f *FakeHost) Shutdown(_ context.Context) error {
	f.ShutdownCalls++
	return f.Err
}
