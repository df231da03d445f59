package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	lobbyCreatedCounter    prometheus.Counter
	handDealtCounter       prometheus.Counter
	playerActionCounter    prometheus.Counter
	rejectedActionCounter  prometheus.Counter
	activeLobbyCountGauge  prometheus.Gauge
	walletCacheMissCounter prometheus.Counter
}

func (m *metrics) LobbyCreated() {
	m.lobbyCreatedCounter.Inc()
}

func (m *metrics) HandDealt() {
	m.handDealtCounter.Inc()
}

func (m *metrics) PlayerActionReceived() {
	m.playerActionCounter.Inc()
}

func (m *metrics) PlayerActionRejected() {
	m.rejectedActionCounter.Inc()
}

func (m *metrics) SetActiveLobbyCount(count int) {
	m.activeLobbyCountGauge.Set(float64(count))
}

func (m *metrics) WalletCacheMiss() {
	m.walletCacheMissCounter.Inc()
}

var Metrics = &metrics{
	lobbyCreatedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "poker_lobbies_created_total",
		Help: "Total number of poker lobbies created",
	}),
	handDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "poker_hands_dealt_total",
		Help: "Total number of hands dealt across all lobbies",
	}),
	playerActionCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "poker_player_actions_total",
		Help: "Total number of player actions processed",
	}),
	rejectedActionCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "poker_player_actions_rejected_total",
		Help: "Total number of player actions rejected as illegal",
	}),
	activeLobbyCountGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poker_active_lobbies_count",
		Help: "Count of the entries in the lobby registry",
	}),
	walletCacheMissCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_balance_cache_misses_total",
		Help: "Total number of balance reads that missed the redis cache",
	}),
}
