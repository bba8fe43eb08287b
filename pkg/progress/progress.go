package progress

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Event is a single progress snapshot for one item. Milestone events carry
// only a status phrase; streaming events carry byte counts too. Total of 0
// means the remote did not declare a length.
type Event struct {
	Item       string `json:"item"`
	Percent    int    `json:"progress"`
	Downloaded uint64 `json:"downloaded"`
	Total      uint64 `json:"total"`
	Status     string `json:"status"`
}

// Sink receives progress events. Delivery is best-effort, a sink has no way
// to fail the operation that is reporting to it.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Nop returns a sink that discards all events
func Nop() Sink {
	return SinkFunc(func(Event) {})
}

// LogSink writes milestone events at info level and byte progress at debug
// level, de-duplicating streaming events that did not move the percentage.
type LogSink struct {
	mu   sync.Mutex
	last map[string]int
}

func NewLogSink() *LogSink {
	return &LogSink{last: make(map[string]int)}
}

func (s *LogSink) Emit(e Event) {
	if e.Downloaded == 0 && e.Total == 0 {
		logrus.WithField("item", e.Item).Info(e.Status)
		return
	}

	s.mu.Lock()
	prev, ok := s.last[e.Item]
	s.last[e.Item] = e.Percent
	s.mu.Unlock()

	if ok && prev == e.Percent {
		return
	}

	logrus.WithFields(logrus.Fields{
		"item":       e.Item,
		"downloaded": e.Downloaded,
		"total":      e.Total,
	}).Debugf("%s %d%%", e.Status, e.Percent)
}
