package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/KaramelBytes/tablescope/internal/actionlog"
)

const sinkBuffer = 256

// chanSink forwards log entries into the program as messages. Entries are
// dropped rather than blocking the caller once the buffer is full.
type chanSink struct {
	ch chan actionlog.Entry
}

func newChanSink() *chanSink {
	return &chanSink{ch: make(chan actionlog.Entry, sinkBuffer)}
}

func (s *chanSink) Append(e actionlog.Entry) {
	select {
	case s.ch <- e:
	default:
	}
}

type logEntryMsg actionlog.Entry

// wait blocks until the next entry arrives.
func (s *chanSink) wait() tea.Cmd {
	return func() tea.Msg {
		return logEntryMsg(<-s.ch)
	}
}
