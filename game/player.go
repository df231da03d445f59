package game

import (
	"funplay.com/server/poker"
)

// PokerPlayer is one seat at a lobby's table. The durable key is
// PlayerID; ConnID is the transport handle and is rebound on reconnect
// without losing seat state. Balance is a cached read of the wallet.
type PokerPlayer struct {
	ConnID       string
	PlayerID     string
	Name         string
	Balance      int64
	Hand         []poker.Card
	CurrentBet   int64
	HasFolded    bool
	IsAllIn      bool
	SeatPosition int
	IsActive     bool

	// hasActed tracks whether the seat has taken an action this street;
	// posting a blind does not count.
	hasActed bool
}

func (p *PokerPlayer) resetForNewHand() {
	p.Hand = nil
	p.CurrentBet = 0
	p.HasFolded = false
	p.IsAllIn = false
	p.hasActed = false
}

func (p *PokerPlayer) resetForNewStreet() {
	p.CurrentBet = 0
	p.hasActed = false
}

// canAct reports whether the seat can still be asked to act this street.
func (p *PokerPlayer) canAct() bool {
	return !p.HasFolded && !p.IsAllIn
}

func (p *PokerPlayer) cardStrings(hidden bool) []string {
	cards := make([]string, len(p.Hand))
	for i, card := range p.Hand {
		if hidden {
			cards[i] = "??"
		} else {
			cards[i] = card.String()
		}
	}
	return cards
}
