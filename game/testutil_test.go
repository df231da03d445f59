package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"funplay.com/server/poker"
)

// fakeWallet is an in-memory balance service keyed by durable player id.
// Guarded by a mutex because hand-timer callbacks touch the wallet from
// the timer goroutine.
type walletCall struct {
	playerID string
	amount   int64
	gameType string
	note     string
}

type fakeWallet struct {
	mu             sync.Mutex
	balances       map[string]int64
	startBalance   int64
	failDeduct     bool
	failDeductFor  string
	failAdd        bool
	failGetBalance bool
	deductCalls    []walletCall
	addCalls       []walletCall
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		balances:     make(map[string]int64),
		startBalance: 5000,
	}
}

func (w *fakeWallet) GetOrCreatePlayer(playerID string, displayName string) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.balances[playerID]; !ok {
		w.balances[playerID] = w.startBalance
	}
	return w.balances[playerID], nil
}

func (w *fakeWallet) GetBalance(playerID string) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failGetBalance {
		return 0, fmt.Errorf("wallet unavailable")
	}
	return w.balances[playerID], nil
}

func (w *fakeWallet) HasSufficientBalance(playerID string, amount int64) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balances[playerID] >= amount, nil
}

func (w *fakeWallet) DeductBalance(playerID string, amount int64, gameType string, note string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failDeduct || playerID == w.failDeductFor {
		return fmt.Errorf("wallet unavailable")
	}
	if w.balances[playerID] < amount {
		return fmt.Errorf("insufficient balance")
	}
	w.balances[playerID] -= amount
	w.deductCalls = append(w.deductCalls, walletCall{playerID, amount, gameType, note})
	return nil
}

func (w *fakeWallet) AddBalance(playerID string, amount int64, gameType string, note string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failAdd {
		return fmt.Errorf("wallet unavailable")
	}
	w.balances[playerID] += amount
	w.addCalls = append(w.addCalls, walletCall{playerID, amount, gameType, note})
	return nil
}

// fakeReceiver records every outbound event in delivery order. Guarded
// by a mutex because hand-timer callbacks broadcast from the timer
// goroutine.
type sentEvent struct {
	connID    string // set for single-connection sends
	lobbyCode string // set for group sends
	event     string
	payload   interface{}
}

type fakeReceiver struct {
	mu     sync.Mutex
	events []sentEvent
	groups map[string]string // connID -> lobbyCode
}

func newFakeReceiver() *fakeReceiver {
	return &fakeReceiver{groups: make(map[string]string)}
}

func (r *fakeReceiver) SendToPlayer(connID string, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{connID: connID, event: event, payload: payload})
}

func (r *fakeReceiver) SendToLobby(lobbyCode string, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{lobbyCode: lobbyCode, event: event, payload: payload})
}

func (r *fakeReceiver) JoinLobbyGroup(connID string, lobbyCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[connID] = lobbyCode
}

func (r *fakeReceiver) eventsTo(connID string, event string) []sentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentEvent
	for _, e := range r.events {
		if e.connID == connID && e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (r *fakeReceiver) lobbyEvents(lobbyCode string, event string) []sentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentEvent
	for _, e := range r.events {
		if e.lobbyCode == lobbyCode && e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (r *fakeReceiver) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

const testLobby = "LOBBY1"

func connID(i int) string {
	return fmt.Sprintf("conn%d", i)
}

func playerID(i int) string {
	return fmt.Sprintf("pid%d", i)
}

func playerName(i int) string {
	return fmt.Sprintf("player%d", i)
}

// newTestTable seats numPlayers players in one lobby with a scripted
// deck. Delays are long enough that the next-hand timer never fires
// during a test.
func newTestTable(t *testing.T, numPlayers int, scriptedCards ...poker.Card) (*Manager, *fakeWallet, *fakeReceiver, *Lobby) {
	w := newFakeWallet()
	r := newFakeReceiver()
	m := NewManager(w, r, Delays{ShowdownResult: 600000, RoundWinner: 600000},
		WithBlinds(10, 20),
		WithDeckFactory(func() *poker.Deck {
			return poker.DeckFromCards(scriptedCards...)
		}))

	for i := 0; i < numPlayers; i++ {
		require.NoError(t, m.JoinLobby(testLobby, playerName(i), playerID(i), connID(i)))
	}

	lobby, ok := m.getLobby(testLobby)
	require.True(t, ok)
	return m, w, r, lobby
}

// streetBetSum is used for checking pot conservation: at any point the
// pot must equal the chips potted in earlier streets plus every seat's
// current street bet.
func streetBetSum(l *Lobby) int64 {
	var sum int64
	for _, p := range l.players {
		sum += p.CurrentBet
	}
	return sum
}
