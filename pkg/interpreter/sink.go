package interpreter

import (
	"sync"

	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// OutputSink collects values appended by the `TestUtils.out` stateful
// callable (§4.11's test-harness surface), a simple capture buffer for
// assertions in script-level tests.
type OutputSink struct {
	mu     sync.Mutex
	values []value.Value
}

func NewOutputSink() *OutputSink { return &OutputSink{} }

func (s *OutputSink) Append(v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, v)
}

// Values returns a snapshot of everything captured so far, in append order.
func (s *OutputSink) Values() []value.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]value.Value, len(s.values))
	copy(out, s.values)
	return out
}
