package connectivity

import "github.com/i474232898/weather-dependencies/internal/stream"

// Satisfied reports a satisfied path once, on subscribe.
func Satisfied() Monitor { return constant(StatusSatisfied) }

// Unsatisfied reports an unsatisfied path once, on subscribe.
func Unsatisfied() Monitor { return constant(StatusUnsatisfied) }

func constant(status Status) Monitor {
	return MonitorFunc(func(fn func(Status)) stream.Cancel {
		fn(status)
		return stream.Noop
	})
}

// SubjectMonitor emits whatever is sent to it. It emits nothing on subscribe.
type SubjectMonitor struct {
	subject *stream.Subject[Status]
}

func NewSubjectMonitor() *SubjectMonitor {
	return &SubjectMonitor{subject: stream.NewSubject[Status]()}
}

func (m *SubjectMonitor) Observe(fn func(Status)) stream.Cancel {
	return m.subject.Subscribe(fn)
}

// Send pushes status to every observer.
func (m *SubjectMonitor) Send(status Status) { m.subject.Send(status) }

// Observers reports how many subscriptions are still open.
func (m *SubjectMonitor) Observers() int { return m.subject.Len() }
