package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funplay.com/server/poker"
)

// Scripted deck for a 3-player hand. Seat order deal: seat0 gets the
// first two cards, and so on; then burn, flop, burn, turn, burn, river.
var threePlayerCards = poker.NewCards(
	"As", "Ah", // seat 0: pair of aces
	"7c", "2d", // seat 1
	"9c", "4h", // seat 2
	"2h",             // burn
	"Kd", "8s", "3h", // flop
	"2s", // burn
	"Ts", // turn
	"3c", // burn
	"5c", // river
)

func startThreePlayerGame(t *testing.T) (*Manager, *fakeWallet, *fakeReceiver, *Lobby) {
	m, w, r, lobby := newTestTable(t, 3, threePlayerCards...)
	// Dealer rotates forward at round start; end at seat 0.
	lobby.dealerPos = 2
	r.reset()
	require.NoError(t, m.StartGame(testLobby, connID(0)))
	return m, w, r, lobby
}

func TestRoundStartBlindsAndTurnOrder(t *testing.T) {
	_, w, r, lobby := startThreePlayerGame(t)

	assert.Equal(t, 0, lobby.dealerPos)
	assert.Equal(t, int64(10), lobby.players[1].CurrentBet, "small blind")
	assert.Equal(t, int64(20), lobby.players[2].CurrentBet, "big blind")
	assert.Equal(t, int64(30), lobby.pot)
	assert.Equal(t, int64(20), lobby.currentBet)
	assert.Equal(t, 0, lobby.currentPlayerIdx, "first to act is three seats past the dealer")
	assert.Equal(t, 2, lobby.lastRaiserIdx, "big blind is the provisional last raiser")
	assert.Equal(t, PreFlop, lobby.phase)

	// blinds were charged through the wallet
	require.Len(t, w.deductCalls, 2)
	assert.Equal(t, walletCall{playerID(1), 10, "Poker", "posted small blind"}, w.deductCalls[0])
	assert.Equal(t, walletCall{playerID(2), 20, "Poker", "posted big blind"}, w.deductCalls[1])
	assert.Equal(t, int64(4990), lobby.players[1].Balance)
	assert.Equal(t, int64(4980), lobby.players[2].Balance)

	// pot conservation at round start
	assert.Equal(t, lobby.pot, streetBetSum(lobby))

	// everyone got two hole cards
	for _, p := range lobby.players {
		assert.Len(t, p.Hand, 2)
	}

	// the player on turn was notified, nobody else
	assert.Len(t, r.eventsTo(connID(0), EventYourTurn), 1)
	assert.Empty(t, r.eventsTo(connID(1), EventYourTurn))
	assert.Empty(t, r.eventsTo(connID(2), EventYourTurn))
}

// The pre-flop formulas use fixed seat offsets from the dealer; with two
// players they make the non-dealer post the small blind and act first,
// and the dealer post the big blind. That order is pinned here as the
// engine's heads-up rule.
func TestHeadsUpBlindAndActOrder(t *testing.T) {
	m, _, r, lobby := newTestTable(t, 2, threePlayerCards...)
	lobby.dealerPos = 1
	r.reset()
	require.NoError(t, m.StartGame(testLobby, connID(0)))

	assert.Equal(t, 0, lobby.dealerPos)
	assert.Equal(t, int64(10), lobby.players[1].CurrentBet, "non-dealer posts the small blind")
	assert.Equal(t, int64(20), lobby.players[0].CurrentBet, "dealer posts the big blind")
	assert.Equal(t, 1, lobby.currentPlayerIdx, "non-dealer acts first pre-flop")
	assert.Equal(t, 0, lobby.lastRaiserIdx)

	// small blind completes; betting circles back to the big blind seat
	require.NoError(t, m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionCall}))
	assert.Equal(t, Flop, lobby.phase)
	assert.Equal(t, 1, lobby.currentPlayerIdx, "non-dealer acts first post-flop too")
}

func TestWrongTurnRejected(t *testing.T) {
	m, _, r, lobby := startThreePlayerGame(t)

	potBefore := lobby.pot
	err := m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionCall})
	assert.Equal(t, ErrNotYourTurn, err)
	assert.Equal(t, potBefore, lobby.pot)
	assert.Equal(t, int64(10), lobby.players[1].CurrentBet)

	errs := r.eventsTo(connID(1), EventError)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNotYourTurn.Error(), errs[0].payload)
}

func TestIllegalCheckRejected(t *testing.T) {
	m, _, _, lobby := startThreePlayerGame(t)

	err := m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionCheck})
	assert.Equal(t, ErrCannotCheck, err)
	assert.Equal(t, 0, lobby.currentPlayerIdx, "rejected action does not advance the turn")
	assert.Equal(t, PreFlop, lobby.phase)
}

func TestRaiseValidation(t *testing.T) {
	m, _, _, lobby := startThreePlayerGame(t)

	err := m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionRaise, Amount: 20})
	assert.Equal(t, ErrRaiseTooLow, err)

	err = m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionRaise, Amount: 6000})
	assert.Equal(t, ErrRaiseExceedsBalance, err)

	assert.Equal(t, int64(30), lobby.pot)
	assert.Equal(t, int64(20), lobby.currentBet)

	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionRaise, Amount: 60}))
	assert.Equal(t, int64(90), lobby.pot)
	assert.Equal(t, int64(60), lobby.currentBet)
	assert.Equal(t, 0, lobby.lastRaiserIdx)
	assert.Equal(t, int64(4940), lobby.players[0].Balance)
}

func TestUnknownActionRejected(t *testing.T) {
	m, _, _, lobby := startThreePlayerGame(t)

	err := m.HandleAction(testLobby, connID(0), PlayerAction{Action: "splash"})
	assert.Equal(t, ErrUnknownAction, err)
	assert.Equal(t, int64(30), lobby.pot)
}

func TestPotConservationThroughBettingRounds(t *testing.T) {
	m, _, _, lobby := startThreePlayerGame(t)

	pottedPriorStreets := int64(0)
	checkInvariant := func() {
		assert.Equal(t, lobby.pot, pottedPriorStreets+streetBetSum(lobby),
			"pot must equal prior street chips plus current street bets")
	}
	act := func(seat int, action PlayerAction) {
		phaseBefore := lobby.phase
		require.NoError(t, m.HandleAction(testLobby, connID(seat), action))
		if lobby.phase != phaseBefore {
			pottedPriorStreets = lobby.pot
		}
		checkInvariant()
	}

	checkInvariant()
	act(0, PlayerAction{Action: ActionRaise, Amount: 60})
	act(1, PlayerAction{Action: ActionCall})
	act(2, PlayerAction{Action: ActionCall}) // closes pre-flop
	assert.Equal(t, Flop, lobby.phase)
	assert.Equal(t, int64(180), lobby.pot)

	act(1, PlayerAction{Action: ActionCheck})
	act(2, PlayerAction{Action: ActionRaise, Amount: 100})
	act(0, PlayerAction{Action: ActionCall})
	act(1, PlayerAction{Action: ActionCall}) // closes the flop
	assert.Equal(t, Turn, lobby.phase)
	assert.Equal(t, int64(480), lobby.pot)
}

func TestStreetAdvanceDealsBoard(t *testing.T) {
	m, _, _, lobby := startThreePlayerGame(t)

	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionCall}))
	require.NoError(t, m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionCall}))

	// betting circled back to the big blind seat: flop is out
	require.Equal(t, Flop, lobby.phase)
	assert.Equal(t, poker.NewCards("Kd", "8s", "3h"), lobby.communityCards)
	assert.Equal(t, int64(0), lobby.currentBet)
	assert.Equal(t, int64(0), streetBetSum(lobby))
	assert.Equal(t, -1, lobby.lastRaiserIdx)
	assert.Equal(t, 1, lobby.currentPlayerIdx, "first eligible seat after the dealer")

	// a street of checks completes once everyone has acted
	require.NoError(t, m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionCheck}))
	require.NoError(t, m.HandleAction(testLobby, connID(2), PlayerAction{Action: ActionCheck}))
	assert.Equal(t, Flop, lobby.phase)
	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionCheck}))
	require.Equal(t, Turn, lobby.phase)
	assert.Equal(t, poker.NewCards("Kd", "8s", "3h", "Ts"), lobby.communityCards)
}

func TestFullHandToShowdown(t *testing.T) {
	m, w, r, lobby := startThreePlayerGame(t)

	phasesSeen := []GamePhase{lobby.phase}
	recordPhase := func() {
		if phasesSeen[len(phasesSeen)-1] != lobby.phase {
			phasesSeen = append(phasesSeen, lobby.phase)
		}
	}

	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionCall}))
	require.NoError(t, m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionCall}))
	recordPhase()
	for _, street := range [][]int{{1, 2, 0}, {1, 2, 0}, {1, 2, 0}} {
		for _, seat := range street {
			require.NoError(t, m.HandleAction(testLobby, connID(seat), PlayerAction{Action: ActionCheck}))
		}
		recordPhase()
	}

	// phase sequence is a monotone walk to showdown
	assert.Equal(t, []GamePhase{PreFlop, Flop, Turn, River, Showdown}, phasesSeen)
	assert.Len(t, lobby.communityCards, 5)

	// seat 0's aces beat the other hands
	showdowns := r.lobbyEvents(testLobby, EventShowdownResult)
	require.Len(t, showdowns, 1)
	ev := showdowns[0].payload.(ShowdownEvent)
	assert.Equal(t, playerName(0), ev.Winner)
	assert.Equal(t, int64(60), ev.Amount)
	assert.Equal(t, "One Pair", ev.Hand)
	require.Len(t, ev.Results, 3)
	assert.Equal(t, playerName(0), ev.Results[0].PlayerName)

	// pot paid out through the wallet and zeroed
	require.Len(t, w.addCalls, 1)
	assert.Equal(t, walletCall{playerID(0), 60, "Poker", "Won pot: ₹60"}, w.addCalls[0])
	assert.Equal(t, int64(0), lobby.pot)
	assert.Equal(t, int64(5040), lobby.players[0].Balance)

	// no winner-by-fold event for a real showdown
	assert.Empty(t, r.lobbyEvents(testLobby, EventRoundWinner))
}

func TestFoldOutEndsHandWithoutShowdown(t *testing.T) {
	m, w, r, lobby := startThreePlayerGame(t)

	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionFold}))
	require.NoError(t, m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionFold}))

	winners := r.lobbyEvents(testLobby, EventRoundWinner)
	require.Len(t, winners, 1)
	ev := winners[0].payload.(RoundWinnerEvent)
	assert.Equal(t, playerName(2), ev.Winner)
	assert.Equal(t, int64(30), ev.Amount)

	assert.Empty(t, r.lobbyEvents(testLobby, EventShowdownResult), "no showdown when everyone folds")
	require.Len(t, w.addCalls, 1)
	assert.Equal(t, walletCall{playerID(2), 30, "Poker", "Won pot (all others folded)"}, w.addCalls[0])
	assert.Equal(t, int64(0), lobby.pot)
	assert.Equal(t, Showdown, lobby.phase, "no further actions accepted until the next hand")
}

func TestInactiveSeatIsForceFolded(t *testing.T) {
	m, _, r, lobby := startThreePlayerGame(t)

	// seat 1 drops while seat 0 is on turn
	m.Disconnect(connID(1))
	assert.False(t, lobby.players[1].IsActive)
	require.Len(t, r.lobbyEvents(testLobby, EventPlayerDisconnected), 1)

	// when the turn reaches seat 1 it is folded without ever being asked
	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionCall}))
	assert.True(t, lobby.players[1].HasFolded)
	assert.Empty(t, r.eventsTo(connID(1), EventYourTurn))

	// betting closed: seats 0 and 2 had matched, so the flop is out
	assert.Equal(t, Flop, lobby.phase)
	logged := false
	for _, line := range lobby.gameLog {
		if line == "player1 folds (disconnected)" {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestDisconnectOnTurnFoldsImmediately(t *testing.T) {
	m, _, r, lobby := startThreePlayerGame(t)

	m.Disconnect(connID(0))
	assert.True(t, lobby.players[0].HasFolded)
	assert.Equal(t, 1, lobby.currentPlayerIdx)
	assert.Len(t, r.eventsTo(connID(1), EventYourTurn), 1)
}

// Two players go all-in with very different stacks. The engine keeps the
// original simplified settlement: the single best hand takes the whole
// pot, with no side pot refunding the big stack's uncalled excess. This
// is a known deviation from standard poker rules.
func TestAllInWithUnevenStacksNoSidePot(t *testing.T) {
	cards := poker.NewCards(
		"As", "Ah", // seat 0: hits trip aces
		"Kd", "Kc", // seat 1
		"3d",                         // burn
		"Ac",                         // community
		"3s", "7h", "5h", "8d", "5d", // burn/community interleaved
		"2c", "6h", "4s",
	)
	w := newFakeWallet()
	w.balances[playerID(0)] = 100
	w.balances[playerID(1)] = 1000
	r := newFakeReceiver()
	m := NewManager(w, r, Delays{ShowdownResult: 600000, RoundWinner: 600000},
		WithBlinds(10, 20),
		WithDeckFactory(func() *poker.Deck { return poker.DeckFromCards(cards...) }))
	require.NoError(t, m.JoinLobby(testLobby, playerName(0), playerID(0), connID(0)))
	require.NoError(t, m.JoinLobby(testLobby, playerName(1), playerID(1), connID(1)))
	lobby, _ := m.getLobby(testLobby)
	lobby.dealerPos = 1
	require.NoError(t, m.StartGame(testLobby, connID(0)))

	require.NoError(t, m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionAllIn}))
	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionAllIn}))

	// both all-in: the board runs out and the hand goes straight to showdown
	assert.Equal(t, Showdown, lobby.phase)
	assert.Len(t, lobby.communityCards, 5)

	showdowns := r.lobbyEvents(testLobby, EventShowdownResult)
	require.Len(t, showdowns, 1)
	ev := showdowns[0].payload.(ShowdownEvent)
	assert.Equal(t, playerName(0), ev.Winner)
	assert.Equal(t, int64(1100), ev.Amount, "the short stack wins the entire pot, uncalled chips included")

	require.Len(t, w.addCalls, 1)
	assert.Equal(t, int64(1100), w.addCalls[0].amount)
	assert.Equal(t, int64(1100), w.balances[playerID(0)])
	assert.Equal(t, int64(0), w.balances[playerID(1)])
}

func TestRoundRestartEvictsBustedAndEndsGame(t *testing.T) {
	cards := poker.NewCards(
		"As", "Ah",
		"Kd", "Kc",
		"3d",
		"Ac",
		"3s", "7h", "5h", "8d", "5d",
		"2c", "6h", "4s",
	)
	w := newFakeWallet()
	w.balances[playerID(0)] = 100
	w.balances[playerID(1)] = 1000
	r := newFakeReceiver()
	m := NewManager(w, r, Delays{ShowdownResult: 600000, RoundWinner: 600000},
		WithBlinds(10, 20),
		WithDeckFactory(func() *poker.Deck { return poker.DeckFromCards(cards...) }))
	require.NoError(t, m.JoinLobby(testLobby, playerName(0), playerID(0), connID(0)))
	require.NoError(t, m.JoinLobby(testLobby, playerName(1), playerID(1), connID(1)))
	lobby, _ := m.getLobby(testLobby)
	lobby.dealerPos = 1
	require.NoError(t, m.StartGame(testLobby, connID(0)))
	require.NoError(t, m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionAllIn}))
	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionAllIn}))
	require.Equal(t, Showdown, lobby.phase)
	r.reset()

	// what the next-hand timer would do
	lobby.lock.Lock()
	lobby.startNewRound()
	lobby.lock.Unlock()

	require.Len(t, lobby.players, 1, "busted player evicted at the round boundary")
	assert.Equal(t, playerName(0), lobby.players[0].Name)
	assert.Equal(t, 0, lobby.players[0].SeatPosition)
	assert.False(t, lobby.isGameStarted)
	assert.Equal(t, Waiting, lobby.phase)
	require.Len(t, r.lobbyEvents(testLobby, EventGameEnded), 1)
}

func TestFailedDeductRejectsActionWithoutMutation(t *testing.T) {
	m, w, r, lobby := startThreePlayerGame(t)

	w.failDeduct = true
	err := m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionCall})
	assert.Equal(t, ErrInsufficientFunds, err)
	assert.Equal(t, int64(30), lobby.pot)
	assert.Equal(t, int64(0), lobby.players[0].CurrentBet)
	assert.Equal(t, 0, lobby.currentPlayerIdx, "turn stays with the rejected actor")
	require.Len(t, r.eventsTo(connID(0), EventError), 1)

	// the wallet recovers and the same action goes through
	w.failDeduct = false
	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionCall}))
	assert.Equal(t, int64(50), lobby.pot)
}

func TestFailedWinnerCreditIsRetriedAndLogged(t *testing.T) {
	m, w, r, lobby := startThreePlayerGame(t)

	w.failAdd = true
	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionFold}))
	require.NoError(t, m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionFold}))

	// the round still completes; the unpaid amount is surfaced in logs,
	// not silently swallowed
	require.Len(t, r.lobbyEvents(testLobby, EventRoundWinner), 1)
	assert.Equal(t, int64(0), lobby.pot)
	assert.Empty(t, w.addCalls)
}

func TestHoleCardsHiddenFromOtherPlayers(t *testing.T) {
	_, _, r, _ := startThreePlayerGame(t)

	states := r.eventsTo(connID(0), EventGameState)
	require.NotEmpty(t, states)
	view := states[len(states)-1].payload.(GameStateView)
	require.Len(t, view.Players, 3)
	assert.Equal(t, []string{"As", "Ah"}, view.Players[0].Cards, "own cards visible")
	assert.Equal(t, []string{"??", "??"}, view.Players[1].Cards)
	assert.Equal(t, []string{"??", "??"}, view.Players[2].Cards)

	statesFor2 := r.eventsTo(connID(2), EventGameState)
	require.NotEmpty(t, statesFor2)
	view2 := statesFor2[len(statesFor2)-1].payload.(GameStateView)
	assert.Equal(t, []string{"??", "??"}, view2.Players[0].Cards)
	assert.Equal(t, []string{"9c", "4h"}, view2.Players[2].Cards)
}

func TestNextHandsKeepDealingThroughTimer(t *testing.T) {
	w := newFakeWallet()
	r := newFakeReceiver()
	m := NewManager(w, r, Delays{ShowdownResult: 20, RoundWinner: 20},
		WithBlinds(10, 20),
		WithDeckFactory(func() *poker.Deck { return poker.DeckFromCards(threePlayerCards...) }))
	require.NoError(t, m.JoinLobby(testLobby, playerName(0), playerID(0), connID(0)))
	require.NoError(t, m.JoinLobby(testLobby, playerName(1), playerID(1), connID(1)))
	lobby, _ := m.getLobby(testLobby)
	lobby.dealerPos = 1
	r.reset()
	require.NoError(t, m.StartGame(testLobby, connID(0)))

	// hand 1 ends by fold; the next hand is left to the timer
	require.NoError(t, m.HandleAction(testLobby, connID(1), PlayerAction{Action: ActionFold}))
	require.Len(t, r.lobbyEvents(testLobby, EventRoundWinner), 1)

	// seat 0 drops while the winner is on display. Seat 0 is the first
	// actor of hand 2, so hand 2 ends by forced fold inside the timer
	// callback itself, and hand 3 must still get scheduled from there.
	m.Disconnect(connID(0))

	require.Eventually(t, func() bool {
		return len(r.lobbyEvents(testLobby, EventRoundWinner)) >= 2 &&
			len(r.eventsTo(connID(1), EventYourTurn)) >= 2
	}, 2*time.Second, 5*time.Millisecond, "hand 3 was never dealt")

	lobby.lock.Lock()
	assert.Equal(t, PreFlop, lobby.phase, "hand 3 is live and waiting on seat 1")
	assert.False(t, lobby.players[1].HasFolded)
	lobby.isGameStarted = false
	lobby.lock.Unlock()
	lobby.handTimer.Destroy()
}

func TestRefusedBlindEndsHandBeforeAnyoneActs(t *testing.T) {
	w := newFakeWallet()
	w.failDeductFor = playerID(1)
	r := newFakeReceiver()
	m := NewManager(w, r, Delays{ShowdownResult: 600000, RoundWinner: 600000},
		WithBlinds(10, 20),
		WithDeckFactory(func() *poker.Deck { return poker.DeckFromCards(threePlayerCards...) }))
	require.NoError(t, m.JoinLobby(testLobby, playerName(0), playerID(0), connID(0)))
	require.NoError(t, m.JoinLobby(testLobby, playerName(1), playerID(1), connID(1)))
	lobby, _ := m.getLobby(testLobby)
	lobby.dealerPos = 1
	r.reset()
	require.NoError(t, m.StartGame(testLobby, connID(0)))

	// the small blind's deduct was refused: that seat sits out, leaving
	// one live seat, so the hand settles before anyone is asked to act
	assert.True(t, lobby.players[1].HasFolded)
	assert.Empty(t, r.eventsTo(connID(0), EventYourTurn))
	assert.Empty(t, r.eventsTo(connID(1), EventYourTurn))

	winners := r.lobbyEvents(testLobby, EventRoundWinner)
	require.Len(t, winners, 1)
	ev := winners[0].payload.(RoundWinnerEvent)
	assert.Equal(t, playerName(0), ev.Winner)
	assert.Equal(t, int64(20), ev.Amount, "only the posted big blind is in the pot")
	assert.Equal(t, int64(0), lobby.pot)
	assert.Equal(t, Showdown, lobby.phase)
	assert.Equal(t, int64(5000), w.balances[playerID(0)], "the lone blind comes straight back")
}

func TestAllInBlindSkippedForFirstAction(t *testing.T) {
	cards := poker.NewCards(
		"As", "Ah",
		"Kd", "Kc",
		"3d",
		"Ac",
		"3s", "7h", "5h", "8d", "5d",
		"2c", "6h", "4s",
	)
	w := newFakeWallet()
	w.balances[playerID(1)] = 10 // exactly the small blind
	r := newFakeReceiver()
	m := NewManager(w, r, Delays{ShowdownResult: 600000, RoundWinner: 600000},
		WithBlinds(10, 20),
		WithDeckFactory(func() *poker.Deck { return poker.DeckFromCards(cards...) }))
	require.NoError(t, m.JoinLobby(testLobby, playerName(0), playerID(0), connID(0)))
	require.NoError(t, m.JoinLobby(testLobby, playerName(1), playerID(1), connID(1)))
	lobby, _ := m.getLobby(testLobby)
	lobby.dealerPos = 1
	r.reset()
	require.NoError(t, m.StartGame(testLobby, connID(0)))

	// the small blind went all-in posting; the opening turn skips to the
	// big blind instead of prompting a seat that cannot act
	require.True(t, lobby.players[1].IsAllIn)
	assert.Equal(t, 0, lobby.currentPlayerIdx)
	assert.Empty(t, r.eventsTo(connID(1), EventYourTurn))
	require.Len(t, r.eventsTo(connID(0), EventYourTurn), 1)

	// the only live bettor checks and the board runs out
	require.NoError(t, m.HandleAction(testLobby, connID(0), PlayerAction{Action: ActionCheck}))
	assert.Equal(t, Showdown, lobby.phase)
	assert.Len(t, lobby.communityCards, 5)

	showdowns := r.lobbyEvents(testLobby, EventShowdownResult)
	require.Len(t, showdowns, 1)
	ev := showdowns[0].payload.(ShowdownEvent)
	assert.Equal(t, playerName(0), ev.Winner)
	assert.Equal(t, int64(30), ev.Amount)
}
