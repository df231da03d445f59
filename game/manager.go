package game

import (
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"funplay.com/server/poker"
	"funplay.com/server/util"
)

var managerLogger = log.With().Str("logger_name", "game::manager").Logger()

// Manager is the lobby registry. The map itself is the only structure
// shared across request handlers; everything inside a lobby is guarded
// by that lobby's lock. Lobbies are created on first join and are never
// torn down.
type Manager struct {
	lobbies  cmap.ConcurrentMap
	wallet   Wallet
	receiver MessageReceiver
	delays   Delays

	smallBlind int64
	bigBlind   int64
	newDeck    func() *poker.Deck
}

type ManagerOpt func(*Manager)

// WithDeckFactory overrides how round decks are produced; tests use it
// to feed scripted decks.
func WithDeckFactory(f func() *poker.Deck) ManagerOpt {
	return func(m *Manager) {
		m.newDeck = f
	}
}

func WithBlinds(smallBlind, bigBlind int64) ManagerOpt {
	return func(m *Manager) {
		m.smallBlind = smallBlind
		m.bigBlind = bigBlind
	}
}

func NewManager(wallet Wallet, receiver MessageReceiver, delays Delays, opts ...ManagerOpt) *Manager {
	m := &Manager{
		lobbies:    cmap.New(),
		wallet:     wallet,
		receiver:   receiver,
		delays:     delays,
		smallBlind: util.Env.GetSmallBlind(),
		bigBlind:   util.Env.GetBigBlind(),
		newDeck: func() *poker.Deck {
			return poker.NewDeck(nil)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) getLobby(code string) (*Lobby, bool) {
	v, ok := m.lobbies.Get(code)
	if !ok {
		return nil, false
	}
	return v.(*Lobby), true
}

func (m *Manager) getOrCreateLobby(code string, creatorConnID string) *Lobby {
	if lobby, ok := m.getLobby(code); ok {
		return lobby
	}

	lobby := newLobby(code, creatorConnID, m)
	if !m.lobbies.SetIfAbsent(code, lobby) {
		// lost the race to a concurrent join
		lobby.handTimer.Destroy()
		existing, _ := m.getLobby(code)
		return existing
	}

	managerLogger.Info().Str("lobby", code).Msg("Created new lobby")
	util.Metrics.LobbyCreated()
	util.Metrics.SetActiveLobbyCount(m.lobbies.Count())
	return lobby
}

// JoinLobby seats a player, creating the lobby on first join. A player
// whose durable id already holds a seat is reconnected: the transport
// handle is rebound and the seat keeps its state.
func (m *Manager) JoinLobby(lobbyCode string, playerName string, playerID string, connID string) error {
	lobby := m.getOrCreateLobby(lobbyCode, connID)

	lobby.lock.Lock()
	defer lobby.lock.Unlock()

	if existing := lobby.findByPlayerID(playerID); existing != nil {
		existing.ConnID = connID
		existing.Name = playerName
		existing.IsActive = true
		if balance, err := m.wallet.GetBalance(playerID); err != nil {
			lobby.logger.Warn().Str("player", playerName).Msgf("Failed to refresh balance on reconnect: %s", err)
		} else {
			existing.Balance = balance
		}
		lobby.logger.Info().Str("player", playerName).Msg("Player reconnected")
	} else {
		if len(lobby.players) >= MaxPlayers {
			m.receiver.SendToPlayer(connID, EventError, ErrLobbyFull.Error())
			return ErrLobbyFull
		}
		balance, err := m.wallet.GetOrCreatePlayer(playerID, playerName)
		if err != nil {
			m.receiver.SendToPlayer(connID, EventError, "could not load wallet balance")
			return errors.Wrap(err, "Unable to load wallet balance for joining player")
		}
		lobby.players = append(lobby.players, &PokerPlayer{
			ConnID:       connID,
			PlayerID:     playerID,
			Name:         playerName,
			Balance:      balance,
			SeatPosition: len(lobby.players),
			IsActive:     true,
		})
		lobby.logger.Info().Str("player", playerName).Msg("Player seated")
	}

	m.receiver.JoinLobbyGroup(connID, lobbyCode)
	m.receiver.SendToPlayer(connID, EventSetConnectionID, connID)
	m.receiver.SendToLobby(lobbyCode, EventUpdatePlayerList, PlayerListUpdate{
		Players:       lobby.playerNames(),
		CreatorConnID: lobby.creatorConnID,
	})

	// A late joiner learns a game is running but sees no hidden cards;
	// the per-recipient state view takes care of that.
	if lobby.phase != Waiting {
		m.receiver.SendToPlayer(connID, EventGameStarted, lobbyCode)
	}

	lobby.broadcastGameState()
	return nil
}

// StartGame begins the first hand. Only the lobby creator may start, and
// at least 2 players must be seated.
func (m *Manager) StartGame(lobbyCode string, connID string) error {
	lobby, ok := m.getLobby(lobbyCode)
	if !ok {
		m.receiver.SendToPlayer(connID, EventError, ErrLobbyNotFound.Error())
		return ErrLobbyNotFound
	}

	lobby.lock.Lock()
	defer lobby.lock.Unlock()

	if connID != lobby.creatorConnID {
		m.receiver.SendToPlayer(connID, EventError, ErrNotCreator.Error())
		return ErrNotCreator
	}
	if len(lobby.players) < 2 {
		m.receiver.SendToPlayer(connID, EventError, ErrNotEnoughPlayers.Error())
		return ErrNotEnoughPlayers
	}
	if lobby.isGameStarted {
		m.receiver.SendToPlayer(connID, EventError, ErrGameAlreadyStarted.Error())
		return ErrGameAlreadyStarted
	}

	lobby.isGameStarted = true
	m.receiver.SendToLobby(lobbyCode, EventGameStarted, lobbyCode)
	lobby.startNewRound()
	return nil
}

// HandleAction processes one betting action from a connection. Rejected
// actions surface as an Error event to the caller and leave the round
// state untouched.
func (m *Manager) HandleAction(lobbyCode string, connID string, action PlayerAction) error {
	util.Metrics.PlayerActionReceived()

	lobby, ok := m.getLobby(lobbyCode)
	if !ok {
		m.receiver.SendToPlayer(connID, EventError, ErrLobbyNotFound.Error())
		return ErrLobbyNotFound
	}

	lobby.lock.Lock()
	defer lobby.lock.Unlock()

	player := lobby.findByConnID(connID)
	if player == nil {
		m.receiver.SendToPlayer(connID, EventError, ErrNotSeated.Error())
		return ErrNotSeated
	}
	if !lobby.isGameStarted || lobby.phase == Waiting || lobby.phase == Showdown {
		m.receiver.SendToPlayer(connID, EventError, ErrNoBettingRound.Error())
		return ErrNoBettingRound
	}
	if lobby.players[lobby.currentPlayerIdx] != player {
		m.receiver.SendToPlayer(connID, EventError, ErrNotYourTurn.Error())
		return ErrNotYourTurn
	}

	if err := lobby.applyAction(player, action); err != nil {
		util.Metrics.PlayerActionRejected()
		m.receiver.SendToPlayer(connID, EventError, err.Error())
		return err
	}

	lobby.advanceGame()
	return nil
}

// Disconnect marks the connection's seat inactive in every lobby where
// it is seated. The seat is kept so the player can reconnect with their
// balance intact; if it is currently their turn they are folded at once.
func (m *Manager) Disconnect(connID string) {
	for item := range m.lobbies.IterBuffered() {
		lobby := item.Val.(*Lobby)

		lobby.lock.Lock()
		player := lobby.findByConnID(connID)
		if player == nil {
			lobby.lock.Unlock()
			continue
		}

		player.IsActive = false
		m.receiver.SendToLobby(lobby.code, EventPlayerDisconnected, player.Name)

		bettingInProgress := lobby.isGameStarted && lobby.phase != Waiting && lobby.phase != Showdown
		if bettingInProgress && lobby.players[lobby.currentPlayerIdx] == player && !player.HasFolded {
			player.HasFolded = true
			lobby.addLog("%s folds (disconnected)", player.Name)
			lobby.advanceGame()
		}
		lobby.lock.Unlock()
	}
}

// LobbyInfo is a read-only view used by the REST surface.
func (m *Manager) LobbyInfo(lobbyCode string) ([]string, bool, bool) {
	lobby, ok := m.getLobby(lobbyCode)
	if !ok {
		return nil, false, false
	}
	lobby.lock.Lock()
	defer lobby.lock.Unlock()
	return lobby.playerNames(), lobby.isGameStarted, true
}
