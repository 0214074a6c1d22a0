package internal

import (
	tea "github.com/charmbracelet/bubbletea"

	"countdown/internal/countdown"
)

// MsgChanged carries the newest countdown change into the program.
type MsgChanged countdown.Change

// Feed hands countdown changes to bubbletea. Only the latest undelivered
// change is kept, so Push never blocks the machine.
type Feed struct {
	ch chan countdown.Change
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan countdown.Change, 1)}
}

// Push is a countdown.Listener.
func (f *Feed) Push(c countdown.Change) {
	for {
		select {
		case f.ch <- c:
			return
		default:
		}
		// Drop the stale change and retry.
		select {
		case <-f.ch:
		default:
		}
	}
}

// Wait returns a command that blocks until the next change.
func (f *Feed) Wait() tea.Cmd {
	return func() tea.Msg {
		return MsgChanged(<-f.ch)
	}
}
