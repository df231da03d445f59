package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	playerCookieName = "funplay_player_id"
	cookieMaxAge     = 365 * 24 * 60 * 60
	playerIDKey      = "playerID"
)

// PlayerIdentification resolves the durable player id from the request
// cookie, minting one for first-time visitors. The wallet row is created
// up front so every identified request has a balance to read.
func PlayerIdentification(balances WalletBalances) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, err := c.Cookie(playerCookieName)
		if err != nil || playerID == "" {
			playerID = strings.ReplaceAll(uuid.New().String(), "-", "")
			c.SetCookie(playerCookieName, playerID, cookieMaxAge, "/", "", false, true)
		}

		if _, err := balances.GetOrCreatePlayer(playerID, "Player"); err != nil {
			restLogger.Error().Str("playerID", playerID).Msgf("Failed to load wallet: %s", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, appError{
				Code:    http.StatusInternalServerError,
				Message: "wallet unavailable",
			})
			return
		}

		c.Set(playerIDKey, playerID)
		c.Next()
	}
}

func playerIDFrom(c *gin.Context) string {
	return c.GetString(playerIDKey)
}
