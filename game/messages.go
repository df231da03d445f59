package game

// Event names sent to clients over the broadcast fabric.
const (
	EventSetConnectionID    = "SetConnectionId"
	EventUpdatePlayerList   = "UpdatePlayerList"
	EventGameStarted        = "GameStarted"
	EventGameState          = "GameState"
	EventYourTurn           = "YourTurn"
	EventError              = "Error"
	EventShowdownResult     = "ShowdownResult"
	EventRoundWinner        = "RoundWinner"
	EventPlayerDisconnected = "PlayerDisconnected"
	EventGameEnded          = "GameEnded"
)

// MessageReceiver delivers game events to clients. Implementations must
// preserve per-lobby ordering: a later broadcast for a lobby must never
// reach clients before an earlier one.
type MessageReceiver interface {
	SendToPlayer(connID string, event string, payload interface{})
	SendToLobby(lobbyCode string, event string, payload interface{})
	JoinLobbyGroup(connID string, lobbyCode string)
}

// Wallet is the external balance service. Chip balances are owned by the
// wallet; the balance kept on a seat is a cached read, refreshed after
// every wallet mutation.
type Wallet interface {
	GetOrCreatePlayer(playerID string, displayName string) (int64, error)
	GetBalance(playerID string) (int64, error)
	HasSufficientBalance(playerID string, amount int64) (bool, error)
	DeductBalance(playerID string, amount int64, gameType string, description string) error
	AddBalance(playerID string, amount int64, gameType string, description string) error
}

// PlayerAction is an inbound betting action from a seated player.
type PlayerAction struct {
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

const (
	ActionFold  = "fold"
	ActionCheck = "check"
	ActionCall  = "call"
	ActionRaise = "raise"
	ActionAllIn = "allin"
)

type PlayerListUpdate struct {
	Players       []string `json:"players"`
	CreatorConnID string   `json:"creator"`
}

// PlayerView is one seat as seen by a specific recipient. Cards are only
// populated for the recipient's own seat; everyone else sees placeholders.
type PlayerView struct {
	Name         string   `json:"name"`
	Balance      int64    `json:"balance"`
	CurrentBet   int64    `json:"currentBet"`
	HasFolded    bool     `json:"hasFolded"`
	IsAllIn      bool     `json:"isAllIn"`
	SeatPosition int      `json:"seatPosition"`
	IsDealer     bool     `json:"isDealer"`
	Cards        []string `json:"cards"`
}

type GameStateView struct {
	Players            []PlayerView `json:"players"`
	CommunityCards     []string     `json:"communityCards"`
	Pot                int64        `json:"pot"`
	CurrentBet         int64        `json:"currentBet"`
	Phase              string       `json:"phase"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	GameLog            []string     `json:"gameLog"`
	IsCreator          bool         `json:"isCreator"`
}

type ShowdownPlayerResult struct {
	PlayerName string   `json:"playerName"`
	Hand       string   `json:"hand"`
	Cards      []string `json:"cards"`
}

type ShowdownEvent struct {
	Winner  string                 `json:"winner"`
	Amount  int64                  `json:"amount"`
	Hand    string                 `json:"hand"`
	Results []ShowdownPlayerResult `json:"results"`
}

type RoundWinnerEvent struct {
	Winner string `json:"winner"`
	Amount int64  `json:"amount"`
}
