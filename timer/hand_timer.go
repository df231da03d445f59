package timer

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var handTimerLogger = log.With().Str("logger_name", "timer::hand_timer").Logger()

// HandTimer schedules the delayed start of the next hand for one lobby.
// At most one fire can be pending at a time; scheduling while a fire is
// pending is rejected, which guards against duplicate hand restarts.
type HandTimer struct {
	lobbyCode string

	chSchedule chan time.Duration
	chEndLoop  chan bool

	callback func()

	mu      sync.Mutex
	pending bool
}

func NewHandTimer(lobbyCode string, callback func()) *HandTimer {
	// chSchedule is buffered so an accepted schedule is never lost: the
	// request must land even when the loop goroutine is still starting
	// up or is inside the callback when it arrives. The pending flag,
	// not channel capacity, is what rejects duplicates.
	ht := HandTimer{
		lobbyCode:  lobbyCode,
		chSchedule: make(chan time.Duration, 1),
		chEndLoop:  make(chan bool, 1),
		callback:   callback,
	}
	return &ht
}

func (h *HandTimer) Run() {
	go h.loop()
}

func (h *HandTimer) Destroy() {
	h.chEndLoop <- true
}

// Schedule requests a callback fire after the given delay. Returns false
// if a fire is already pending; the pending fire covers the request.
func (h *HandTimer) Schedule(delay time.Duration) bool {
	h.mu.Lock()
	if h.pending {
		h.mu.Unlock()
		handTimerLogger.Info().Str("lobby", h.lobbyCode).Msg("Next hand already scheduled. Ignoring the request.")
		return false
	}
	h.pending = true
	h.mu.Unlock()

	// cannot block: pending gates the buffer to one in-flight request
	h.chSchedule <- delay
	return true
}

func (h *HandTimer) clearPending() {
	h.mu.Lock()
	h.pending = false
	h.mu.Unlock()
}

func (h *HandTimer) loop() {
	defer func() {
		err := recover()
		if err != nil {
			// Panic occurred.
			debug.PrintStack()
			handTimerLogger.Error().
				Str("lobby", h.lobbyCode).
				Msgf("Hand timer loop returning due to panic: %s\nStack Trace:\n%s", err, string(debug.Stack()))
		}
	}()

	for {
		select {
		case <-h.chEndLoop:
			return
		case delay := <-h.chSchedule:
			expire := time.NewTimer(delay)
			select {
			case <-h.chEndLoop:
				expire.Stop()
				return
			case <-expire.C:
				// cleared before the callback runs so the callback can
				// schedule the hand after this one
				h.clearPending()
				h.callback()
			}
		}
	}
}
