package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"funplay.com/server/poker"
	"funplay.com/server/timer"
)

var lobbyLogger = log.With().Str("logger_name", "game::lobby").Logger()

const (
	// MaxPlayers is the seat capacity of one table.
	MaxPlayers = 7

	gameTypePoker = "Poker"

	// The round log keeps the most recent entries only; clients are shown
	// the tail of it.
	maxLogEntries     = 50
	logEntriesForView = 10
)

type GamePhase int

const (
	Waiting GamePhase = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
)

var phaseToString = map[GamePhase]string{
	Waiting:  "Waiting",
	PreFlop:  "PreFlop",
	Flop:     "Flop",
	Turn:     "Turn",
	River:    "River",
	Showdown: "Showdown",
}

func (p GamePhase) String() string {
	return phaseToString[p]
}

// Lobby is one table: its seated players and the state of the hand in
// progress. All mutation happens under the lobby's own lock; lobbies
// never block each other.
type Lobby struct {
	lock sync.Mutex

	code          string
	players       []*PokerPlayer
	creatorConnID string
	isGameStarted bool

	deck             *poker.Deck
	communityCards   []poker.Card
	pot              int64
	currentBet       int64
	dealerPos        int
	currentPlayerIdx int
	lastRaiserIdx    int
	phase            GamePhase
	smallBlind       int64
	bigBlind         int64
	gameLog          []string

	handTimer *timer.HandTimer

	wallet   Wallet
	receiver MessageReceiver
	delays   Delays
	newDeck  func() *poker.Deck

	logger zerolog.Logger
}

func newLobby(code string, creatorConnID string, m *Manager) *Lobby {
	l := &Lobby{
		code:          code,
		creatorConnID: creatorConnID,
		lastRaiserIdx: -1,
		phase:         Waiting,
		smallBlind:    m.smallBlind,
		bigBlind:      m.bigBlind,
		wallet:        m.wallet,
		receiver:      m.receiver,
		delays:        m.delays,
		newDeck:       m.newDeck,
		logger:        lobbyLogger.With().Str("lobby", code).Logger(),
	}
	l.handTimer = timer.NewHandTimer(code, l.onNextHandTimer)
	l.handTimer.Run()
	return l
}

func (l *Lobby) findByPlayerID(playerID string) *PokerPlayer {
	for _, p := range l.players {
		if strings.EqualFold(p.PlayerID, playerID) {
			return p
		}
	}
	return nil
}

func (l *Lobby) findByConnID(connID string) *PokerPlayer {
	for _, p := range l.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (l *Lobby) playerNames() []string {
	names := make([]string, len(l.players))
	for i, p := range l.players {
		names[i] = p.Name
	}
	return names
}

func (l *Lobby) addLog(format string, args ...interface{}) {
	l.gameLog = append(l.gameLog, fmt.Sprintf(format, args...))
	if len(l.gameLog) > maxLogEntries {
		l.gameLog = l.gameLog[len(l.gameLog)-maxLogEntries:]
	}
}

func (l *Lobby) logTail() []string {
	if len(l.gameLog) <= logEntriesForView {
		return append([]string{}, l.gameLog...)
	}
	return append([]string{}, l.gameLog[len(l.gameLog)-logEntriesForView:]...)
}

// stateViewFor builds the game state snapshot for one recipient. Hole
// cards are only revealed on the recipient's own seat; the payload is
// computed per recipient so another player's cards can never leak.
func (l *Lobby) stateViewFor(recipient *PokerPlayer) GameStateView {
	players := make([]PlayerView, len(l.players))
	for i, p := range l.players {
		players[i] = PlayerView{
			Name:         p.Name,
			Balance:      p.Balance,
			CurrentBet:   p.CurrentBet,
			HasFolded:    p.HasFolded,
			IsAllIn:      p.IsAllIn,
			SeatPosition: p.SeatPosition,
			IsDealer:     p.SeatPosition == l.dealerPos,
			Cards:        p.cardStrings(p != recipient),
		}
	}

	community := make([]string, len(l.communityCards))
	for i, card := range l.communityCards {
		community[i] = card.String()
	}

	return GameStateView{
		Players:            players,
		CommunityCards:     community,
		Pot:                l.pot,
		CurrentBet:         l.currentBet,
		Phase:              l.phase.String(),
		CurrentPlayerIndex: l.currentPlayerIdx,
		GameLog:            l.logTail(),
		IsCreator:          recipient.ConnID == l.creatorConnID,
	}
}

func (l *Lobby) broadcastGameState() {
	for _, p := range l.players {
		l.receiver.SendToPlayer(p.ConnID, EventGameState, l.stateViewFor(p))
	}
}

func (l *Lobby) onNextHandTimer() {
	l.lock.Lock()
	defer l.lock.Unlock()
	if !l.isGameStarted {
		return
	}
	l.startNewRound()
}
