package nats

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"funplay.com/server/game"
)

var hubLogger = log.With().Str("logger_name", "nats::hub").Logger()

// envelope is the wire frame for every outbound event.
type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// joinMessage arrives on the join subject before the connection belongs
// to any lobby.
type joinMessage struct {
	LobbyCode  string `json:"lobbyCode"`
	PlayerName string `json:"playerName"`
	PlayerID   string `json:"playerId"`
	ConnID     string `json:"connId"`
}

// playerMessage arrives on a lobby's player subject. The action "start"
// begins the game; everything else is a betting action.
type playerMessage struct {
	ConnID string `json:"connId"`
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

type disconnectMessage struct {
	ConnID string `json:"connId"`
}

// Hub bridges the game manager and the NATS fabric: game events go out
// on lobby and connection subjects, and player traffic comes in on the
// join, disconnect and per-lobby player subjects.
//
// Outbound publishes all ride one connection, so NATS preserves the
// order the game emits events in.
type Hub struct {
	nc      *natsgo.Conn
	manager *game.Manager

	// lobbyCode -> *natsgo.Subscription for that lobby's player subject
	lobbySubs     cmap.ConcurrentMap
	joinSub       *natsgo.Subscription
	disconnectSub *natsgo.Subscription
}

// NewHub wires the hub to a NATS connection. Start must be called with
// the manager before any traffic flows; the manager itself needs the
// hub as its receiver, hence the two phases.
func NewHub(nc *natsgo.Conn) *Hub {
	return &Hub{
		nc:        nc,
		lobbySubs: cmap.New(),
	}
}

// Start binds the manager and subscribes to the global inbound subjects.
func (h *Hub) Start(manager *game.Manager) error {
	h.manager = manager

	var err error
	h.joinSub, err = h.nc.Subscribe(GetJoinSubject(), h.onJoin)
	if err != nil {
		return errors.Wrapf(err, "Failed to subscribe to %s", GetJoinSubject())
	}
	h.disconnectSub, err = h.nc.Subscribe(GetDisconnectSubject(), h.onDisconnect)
	if err != nil {
		return errors.Wrapf(err, "Failed to subscribe to %s", GetDisconnectSubject())
	}
	hubLogger.Info().Msg("Hub subscribed to join and disconnect subjects")
	return nil
}

func (h *Hub) Stop() {
	if h.joinSub != nil {
		h.joinSub.Unsubscribe()
	}
	if h.disconnectSub != nil {
		h.disconnectSub.Unsubscribe()
	}
	for item := range h.lobbySubs.IterBuffered() {
		item.Val.(*natsgo.Subscription).Unsubscribe()
	}
}

func (h *Hub) SendToPlayer(connID string, event string, payload interface{}) {
	h.publish(GetConnSubject(connID), event, payload)
}

func (h *Hub) SendToLobby(lobbyCode string, event string, payload interface{}) {
	h.publish(GetLobbySubject(lobbyCode), event, payload)
}

// JoinLobbyGroup ensures the lobby's inbound player subject has a live
// subscription. Membership itself lives in the game manager; the hub
// only cares that someone is listening for the lobby's actions.
func (h *Hub) JoinLobbyGroup(connID string, lobbyCode string) {
	if h.lobbySubs.Has(lobbyCode) {
		return
	}

	subject := GetLobbyPlayerSubject(lobbyCode)
	sub, err := h.nc.Subscribe(subject, func(msg *natsgo.Msg) {
		h.onPlayerMessage(lobbyCode, msg)
	})
	if err != nil {
		hubLogger.Error().Str("lobby", lobbyCode).Msg(fmt.Sprintf("Failed to subscribe to %s", subject))
		return
	}
	if !h.lobbySubs.SetIfAbsent(lobbyCode, sub) {
		// lost the race to a concurrent join
		sub.Unsubscribe()
	}
}

func (h *Hub) publish(subject string, event string, payload interface{}) {
	data, err := jsoniter.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		hubLogger.Error().Str("subject", subject).Str("event", event).Msgf("Failed to marshal event: %s", err)
		return
	}
	if err := h.nc.Publish(subject, data); err != nil {
		hubLogger.Error().Str("subject", subject).Str("event", event).Msgf("Failed to publish event: %s", err)
	}
}

func (h *Hub) onJoin(msg *natsgo.Msg) {
	var join joinMessage
	if err := jsoniter.Unmarshal(msg.Data, &join); err != nil {
		hubLogger.Error().Msgf("Discarding unparsable join message: %s", err)
		return
	}
	if join.LobbyCode == "" || join.PlayerID == "" || join.ConnID == "" {
		hubLogger.Error().Str("lobby", join.LobbyCode).Msg("Discarding join message with missing fields")
		return
	}

	err := h.manager.JoinLobby(join.LobbyCode, join.PlayerName, join.PlayerID, join.ConnID)
	if err != nil {
		hubLogger.Warn().Str("lobby", join.LobbyCode).Str("player", join.PlayerName).
			Msgf("Join rejected: %s", err)
	}
}

func (h *Hub) onPlayerMessage(lobbyCode string, msg *natsgo.Msg) {
	var pm playerMessage
	if err := jsoniter.Unmarshal(msg.Data, &pm); err != nil {
		hubLogger.Error().Str("lobby", lobbyCode).Msgf("Discarding unparsable player message: %s", err)
		return
	}
	if pm.ConnID == "" {
		hubLogger.Error().Str("lobby", lobbyCode).Msg("Discarding player message with no connection id")
		return
	}

	if pm.Action == "start" {
		if err := h.manager.StartGame(lobbyCode, pm.ConnID); err != nil {
			hubLogger.Warn().Str("lobby", lobbyCode).Msgf("Start rejected: %s", err)
		}
		return
	}

	err := h.manager.HandleAction(lobbyCode, pm.ConnID, game.PlayerAction{
		Action: pm.Action,
		Amount: pm.Amount,
	})
	if err != nil {
		// the player already got an Error event; this is just for the logs
		hubLogger.Debug().Str("lobby", lobbyCode).Str("action", pm.Action).Msgf("Action rejected: %s", err)
	}
}

func (h *Hub) onDisconnect(msg *natsgo.Msg) {
	var dm disconnectMessage
	if err := jsoniter.Unmarshal(msg.Data, &dm); err != nil {
		hubLogger.Error().Msgf("Discarding unparsable disconnect message: %s", err)
		return
	}
	if dm.ConnID == "" {
		return
	}
	h.manager.Disconnect(dm.ConnID)
}
