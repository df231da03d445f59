package game

import "errors"

var (
	ErrLobbyNotFound       = errors.New("lobby not found")
	ErrLobbyFull           = errors.New("table is full (max 7 players)")
	ErrNotSeated           = errors.New("you are not seated at this table")
	ErrNotCreator          = errors.New("only the host can start the game")
	ErrNotEnoughPlayers    = errors.New("need at least 2 players to start")
	ErrGameAlreadyStarted  = errors.New("game has already started")
	ErrNoBettingRound      = errors.New("no betting round in progress")
	ErrNotYourTurn         = errors.New("it is not your turn")
	ErrCannotCheck         = errors.New("cannot check, must call or raise")
	ErrRaiseTooLow         = errors.New("raise must be higher than current bet")
	ErrRaiseExceedsBalance = errors.New("raise exceeds available balance")
	ErrUnknownAction       = errors.New("unknown action")
	ErrInsufficientFunds   = errors.New("insufficient balance")
)
