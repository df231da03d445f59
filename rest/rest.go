package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"funplay.com/server/util"
	"funplay.com/server/wallet"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()

// adRewardAmount is credited for each watched ad.
const adRewardAmount = 100

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WalletBalances is the wallet surface the HTTP API reads and credits.
type WalletBalances interface {
	GetOrCreatePlayer(playerID string, displayName string) (int64, error)
	GetBalance(playerID string) (int64, error)
	AddBalance(playerID string, amount int64, gameType string, description string) error
}

// TransactionLedger serves the wallet history view.
type TransactionLedger interface {
	GetTransactionHistory(playerID string, limit int) ([]wallet.Transaction, error)
}

// LobbyLookup is the read-only lobby view exposed over HTTP.
type LobbyLookup interface {
	LobbyInfo(lobbyCode string) ([]string, bool, bool)
}

type server struct {
	balances WalletBalances
	ledger   TransactionLedger
	lobbies  LobbyLookup
}

// NewRouter builds the HTTP surface: health and metrics unauthenticated,
// the wallet and lobby API behind the player cookie.
func NewRouter(balances WalletBalances, ledger TransactionLedger, lobbies LobbyLookup) *gin.Engine {
	s := &server{
		balances: balances,
		ledger:   ledger,
		lobbies:  lobbies,
	}

	r := gin.Default()
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", PlayerIdentification(balances))
	api.GET("/wallet", s.getWallet)
	api.POST("/wallet/ad-reward", s.adReward)
	api.GET("/lobby/:code", s.getLobby)
	return r
}

// RunRestServer blocks serving the HTTP API on the configured port.
func RunRestServer(balances WalletBalances, ledger TransactionLedger, lobbies LobbyLookup) {
	r := NewRouter(balances, ledger, lobbies)
	addr := fmt.Sprintf(":%d", util.Env.GetHTTPPort())
	restLogger.Info().Str("addr", addr).Msg("REST server listening")
	if err := r.Run(addr); err != nil {
		restLogger.Fatal().Msgf("REST server exited: %s", err)
	}
}

func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *server) getWallet(c *gin.Context) {
	playerID := playerIDFrom(c)

	balance, err := s.balances.GetBalance(playerID)
	if err != nil {
		restLogger.Error().Str("playerID", playerID).Msgf("Failed to read balance: %s", err)
		c.JSON(http.StatusInternalServerError, appError{Code: http.StatusInternalServerError, Message: "wallet unavailable"})
		return
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	history, err := s.ledger.GetTransactionHistory(playerID, limit)
	if err != nil {
		restLogger.Error().Str("playerID", playerID).Msgf("Failed to read transactions: %s", err)
		c.JSON(http.StatusInternalServerError, appError{Code: http.StatusInternalServerError, Message: "wallet unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"playerId":     playerID,
		"balance":      balance,
		"transactions": history,
	})
}

func (s *server) adReward(c *gin.Context) {
	playerID := playerIDFrom(c)

	if err := s.balances.AddBalance(playerID, adRewardAmount, "General", "Ad reward"); err != nil {
		restLogger.Error().Str("playerID", playerID).Msgf("Failed to credit ad reward: %s", err)
		c.JSON(http.StatusInternalServerError, appError{Code: http.StatusInternalServerError, Message: "wallet unavailable"})
		return
	}

	balance, err := s.balances.GetBalance(playerID)
	if err != nil {
		restLogger.Error().Str("playerID", playerID).Msgf("Failed to read balance after reward: %s", err)
		c.JSON(http.StatusInternalServerError, appError{Code: http.StatusInternalServerError, Message: "wallet unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance, "reward": adRewardAmount})
}

func (s *server) getLobby(c *gin.Context) {
	code := c.Param("code")
	names, started, ok := s.lobbies.LobbyInfo(code)
	if !ok {
		c.JSON(http.StatusNotFound, appError{Code: http.StatusNotFound, Message: "lobby not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lobbyCode": code,
		"players":   names,
		"started":   started,
	})
}
