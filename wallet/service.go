package wallet

import (
	"database/sql"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"funplay.com/server/util"
)

var serviceLogger = log.With().Str("logger_name", "wallet::service").Logger()

const playerRowCacheSize = 100000

// Transaction is one ledger entry. Every balance mutation writes one;
// the ledger is append-only.
type Transaction struct {
	ID          int64     `db:"id" json:"id"`
	PlayerID    string    `db:"player_id" json:"playerId"`
	Amount      int64     `db:"amount" json:"amount"`
	Type        string    `db:"type" json:"type"`
	GameType    string    `db:"game_type" json:"gameType"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

const (
	txTypeDebit  = "Debit"
	txTypeCredit = "Credit"
)

// Service is the postgres-backed wallet. Balances live in the players
// table; reads and writes go through row locks so concurrent lobbies
// cannot double-spend a balance.
type Service struct {
	db           *sqlx.DB
	startBalance int64

	// player_id is an external string key; the row id lookup is cached
	// since the mapping never changes once created.
	playerRows *lru.Cache
}

func NewService(db *sqlx.DB) (*Service, error) {
	rows, err := lru.New(playerRowCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize player row cache")
	}
	return &Service{
		db:           db,
		startBalance: util.Env.GetStartingBalance(),
		playerRows:   rows,
	}, nil
}

// EnsureSchema creates the wallet tables when they do not exist yet.
func (s *Service) EnsureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS players (
	id BIGSERIAL PRIMARY KEY,
	player_id TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	balance BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS transactions (
	id BIGSERIAL PRIMARY KEY,
	player_id TEXT NOT NULL REFERENCES players (player_id),
	amount BIGINT NOT NULL,
	type TEXT NOT NULL,
	game_type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_player ON transactions (player_id, created_at DESC);`
	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrap(err, "Unable to create wallet schema")
	}
	return nil
}

// GetOrCreatePlayer returns the player's balance, opening a wallet with
// the configured starting balance on first sight of the player id.
func (s *Service) GetOrCreatePlayer(playerID string, displayName string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO players (player_id, display_name, balance) VALUES ($1, $2, $3)
		 ON CONFLICT (player_id) DO NOTHING`,
		playerID, displayName, s.startBalance)
	if err != nil {
		return 0, errors.Wrapf(err, "Unable to create wallet for player %s", playerID)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		serviceLogger.Info().Str("playerID", playerID).Int64("balance", s.startBalance).Msg("Opened new wallet")
	}
	return s.GetBalance(playerID)
}

func (s *Service) GetBalance(playerID string) (int64, error) {
	var balance int64
	err := s.db.Get(&balance, "SELECT balance FROM players WHERE player_id = $1", playerID)
	if err == sql.ErrNoRows {
		return 0, errors.Errorf("No wallet exists for player %s", playerID)
	} else if err != nil {
		return 0, errors.Wrapf(err, "Unable to read balance for player %s", playerID)
	}
	return balance, nil
}

func (s *Service) HasSufficientBalance(playerID string, amount int64) (bool, error) {
	balance, err := s.GetBalance(playerID)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

// DeductBalance removes chips from the wallet and records the ledger
// entry in the same transaction. The row lock makes the balance check
// and the update atomic; an insufficient balance fails the whole call.
func (s *Service) DeductBalance(playerID string, amount int64, gameType string, description string) error {
	if amount <= 0 {
		return errors.Errorf("Invalid deduct amount %d for player %s", amount, playerID)
	}
	return s.mutateBalance(playerID, -amount, txTypeDebit, gameType, description)
}

// AddBalance credits chips to the wallet with a ledger entry.
func (s *Service) AddBalance(playerID string, amount int64, gameType string, description string) error {
	if amount <= 0 {
		return errors.Errorf("Invalid credit amount %d for player %s", amount, playerID)
	}
	return s.mutateBalance(playerID, amount, txTypeCredit, gameType, description)
}

func (s *Service) mutateBalance(playerID string, delta int64, txType string, gameType string, description string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "Unable to begin wallet transaction")
	}
	defer tx.Rollback()

	var balance int64
	err = tx.Get(&balance, "SELECT balance FROM players WHERE player_id = $1 FOR UPDATE", playerID)
	if err == sql.ErrNoRows {
		return errors.Errorf("No wallet exists for player %s", playerID)
	} else if err != nil {
		return errors.Wrapf(err, "Unable to lock wallet row for player %s", playerID)
	}

	if balance+delta < 0 {
		return errors.Errorf("Insufficient balance for player %s: have %d, need %d", playerID, balance, -delta)
	}

	if _, err = tx.Exec("UPDATE players SET balance = balance + $1 WHERE player_id = $2", delta, playerID); err != nil {
		return errors.Wrapf(err, "Unable to update balance for player %s", playerID)
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	_, err = tx.Exec(
		`INSERT INTO transactions (player_id, amount, type, game_type, description)
		 VALUES ($1, $2, $3, $4, $5)`,
		playerID, amount, txType, gameType, description)
	if err != nil {
		return errors.Wrapf(err, "Unable to record transaction for player %s", playerID)
	}

	return errors.Wrap(tx.Commit(), "Unable to commit wallet transaction")
}

// GetTransactionHistory returns the player's most recent ledger entries,
// newest first.
func (s *Service) GetTransactionHistory(playerID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	transactions := []Transaction{}
	err := s.db.Select(&transactions,
		`SELECT id, player_id, amount, type, game_type, description, created_at
		 FROM transactions WHERE player_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2`,
		playerID, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read transactions for player %s", playerID)
	}
	return transactions, nil
}

// PlayerRowID resolves the internal row id for a player, caching the
// result since the mapping never changes.
func (s *Service) PlayerRowID(playerID string) (int64, error) {
	if v, exists := s.playerRows.Get(playerID); exists {
		return v.(int64), nil
	}
	var id int64
	err := s.db.Get(&id, "SELECT id FROM players WHERE player_id = $1", playerID)
	if err != nil {
		return 0, errors.Wrapf(err, "Unable to resolve row id for player %s", playerID)
	}
	s.playerRows.Add(playerID, id)
	return id, nil
}
