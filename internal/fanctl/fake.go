package fanctl

// FakeWriter records duty writes for tests.
type FakeWriter struct {
	// Writes holds every accepted duty, in order.
	Writes []int

	// Err, when set, is returned by SetDuty and the write is dropped.
	Err error
}

func (f *FakeWriter) SetDuty(percent int) error {
	if f.Err != nil {
		return f.Err
	}
	f.Writes = append(f.Writes, percent)
	return nil
}
