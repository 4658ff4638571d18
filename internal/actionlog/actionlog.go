// Package actionlog records a timestamped, append-only list of user-facing
// events and mirrors new entries into an optional sink.
package actionlog

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the second-granularity timestamp used in formatted entries.
const TimeLayout = "2006-01-02 15:04:05"

// Entry is one immutable log line.
type Entry struct {
	ID      string
	Time    time.Time
	Message string
}

// String formats the entry as "[YYYY-MM-DD HH:MM:SS] message".
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format(TimeLayout), e.Message)
}

// Record formats the entry for persistent logs as "<id> [timestamp] message"
// so lines from concurrent sessions sharing one file stay distinguishable.
func (e Entry) Record() string {
	return e.ID + " " + e.String()
}

// Sink displays entries as they are logged.
type Sink interface {
	Append(e Entry)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Entry)

func (f SinkFunc) Append(e Entry) { f(e) }

// WriterSink writes every entry as a line to w. Write errors are dropped.
func WriterSink(w io.Writer) Sink {
	return SinkFunc(func(e Entry) {
		_, _ = fmt.Fprintln(w, e.String())
	})
}

// RecordSink appends every entry to w in Record form. Write errors are dropped.
func RecordSink(w io.Writer) Sink {
	return SinkFunc(func(e Entry) {
		_, _ = fmt.Fprintln(w, e.Record())
	})
}

// Multi fans an entry out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	if len(live) == 1 {
		return live[0]
	}
	return SinkFunc(func(e Entry) {
		for _, s := range live {
			s.Append(e)
		}
	})
}

// Log is the append-only event list.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	sink    Sink
	now     func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithSink binds a sink at construction time.
func WithSink(s Sink) Option {
	return func(l *Log) { l.sink = s }
}

// New returns an empty log.
func New(opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Log appends message and forwards it to the bound sink. It never fails;
// a panicking sink is ignored. Entry times never go backwards.
func (l *Log) Log(message string) Entry {
	l.mu.Lock()
	ts := l.now().Local().Truncate(time.Second)
	if n := len(l.entries); n > 0 && ts.Before(l.entries[n-1].Time) {
		ts = l.entries[n-1].Time
	}
	e := Entry{ID: uuid.NewString(), Time: ts, Message: message}
	l.entries = append(l.entries, e)
	sink := l.sink
	l.mu.Unlock()

	if sink != nil {
		func() {
			defer func() { _ = recover() }()
			sink.Append(e)
		}()
	}
	return e
}

// Logf formats and logs a message.
func (l *Log) Logf(format string, args ...any) Entry {
	return l.Log(fmt.Sprintf(format, args...))
}

// Bind attaches s for future entries. Existing entries are not replayed.
// Passing nil detaches the current sink.
func (l *Log) Bind(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = s
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
