package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pomohabit/internal/timer"
)

type timerEventMsg struct {
	habitID string
	event   timer.Event
}

// eventBus carries timer events from timer goroutines into the bubbletea
// loop. Listeners run synchronously inside timer calls made from Update, so
// the channel is buffered and ticks are dropped rather than blocking.
type eventBus struct {
	events chan timerEventMsg
	done   chan struct{}
	once   sync.Once
}

func newEventBus() *eventBus {
	return &eventBus{
		events: make(chan timerEventMsg, 64),
		done:   make(chan struct{}),
	}
}

func (b *eventBus) listener(habitID string) func(timer.Event) {
	return func(ev timer.Event) {
		msg := timerEventMsg{habitID: habitID, event: ev}
		if ev.Kind == timer.Ticked {
			select {
			case b.events <- msg:
			default:
			}
			return
		}
		select {
		case b.events <- msg:
		case <-b.done:
		}
	}
}

// wait returns a command that delivers the next timer event.
func (b *eventBus) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.events:
			return msg
		case <-b.done:
			return nil
		}
	}
}

func (b *eventBus) close() {
	b.once.Do(func() { close(b.done) })
}
