package execctx

import "sync"

// Sink receives streamed output messages as they are emitted. An
// interactive host supplies one to render progress live; batch callers
// usually leave it nil and read the buffer from the Result.
type Sink func(msg string)

// Output is the dual-channel output of one action invocation: every
// message lands in the in-memory buffer, and is forwarded to the sink
// immediately, in emission order, when one is attached.
type Output struct {
	mu   sync.Mutex
	buf  []string
	sink Sink
}

// NewOutput creates an Output with an optional streaming sink.
func NewOutput(sink Sink) *Output {
	return &Output{sink: sink}
}

// Log records one message and streams it when a sink is attached.
func (o *Output) Log(msg string) {
	o.mu.Lock()
	o.buf = append(o.buf, msg)
	sink := o.sink
	o.mu.Unlock()

	if sink != nil {
		sink(msg)
	}
}

// Messages returns a copy of everything emitted so far.
func (o *Output) Messages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.buf))
	copy(out, o.buf)
	return out
}

// Len returns the number of buffered messages.
func (o *Output) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.buf)
}
