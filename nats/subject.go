package nats

import (
	"fmt"
)

// Subjects used between the poker server and the client gateway.
//
// Outbound (server -> gateway):
//   poker.<lobbyCode>.lobby   broadcasts for everyone at the table
//   poker.conn.<connId>       events for a single connection
//
// Inbound (gateway -> server):
//   poker.<lobbyCode>.player  betting actions from seated players
//   poker.join                join requests, before a lobby is known
//   poker.disconnect          connection drop notifications

func GetLobbySubject(lobbyCode string) string {
	return fmt.Sprintf("poker.%s.lobby", lobbyCode)
}

func GetConnSubject(connID string) string {
	return fmt.Sprintf("poker.conn.%s", connID)
}

func GetLobbyPlayerSubject(lobbyCode string) string {
	return fmt.Sprintf("poker.%s.player", lobbyCode)
}

func GetJoinSubject() string {
	return "poker.join"
}

func GetDisconnectSubject() string {
	return "poker.disconnect"
}
