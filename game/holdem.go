package game

import (
	"fmt"
	"time"

	"funplay.com/server/poker"
	"funplay.com/server/util"
)

// The betting round state machine. Every method here assumes the lobby
// lock is held; holding it across wallet calls keeps a second action on
// the same lobby from interleaving mid-mutation.

// startNewRound resets the round state and deals a fresh hand. Busted
// players are removed at this boundary; if fewer than 2 players remain
// the game ends for the lobby (the lobby itself lives on).
func (l *Lobby) startNewRound() {
	funded := make([]*PokerPlayer, 0, len(l.players))
	for _, p := range l.players {
		if p.Balance > 0 {
			funded = append(funded, p)
		} else {
			l.logger.Info().Str("player", p.Name).Msg("Removing busted player at round boundary")
		}
	}
	l.players = funded
	for i, p := range l.players {
		p.SeatPosition = i
	}

	if len(l.players) < 2 {
		l.isGameStarted = false
		l.phase = Waiting
		l.receiver.SendToLobby(l.code, EventGameEnded, "Not enough players to continue")
		return
	}

	l.deck = l.newDeck()
	l.communityCards = nil
	l.pot = 0
	l.currentBet = 0
	l.phase = PreFlop
	l.gameLog = nil
	for _, p := range l.players {
		p.resetForNewHand()
	}

	l.dealerPos = (l.dealerPos + 1) % len(l.players)
	l.postBlinds()

	for _, p := range l.players {
		p.Hand = l.deck.Draw(2)
	}

	l.currentPlayerIdx = (l.dealerPos + 3) % len(l.players)
	// The big blind acts last pre-flop; record it as the provisional
	// last raiser so betting circles back to it.
	l.lastRaiserIdx = (l.dealerPos + 2) % len(l.players)

	util.Metrics.HandDealt()

	// A seat whose blind the wallet refused is already folded here. With
	// one active seat left the hand is over before anyone acts; the turn
	// pointer must never land on a seat that cannot act.
	active := l.activePlayers()
	if len(active) == 0 {
		l.isGameStarted = false
		l.phase = Waiting
		l.receiver.SendToLobby(l.code, EventGameEnded, "Not enough players to continue")
		return
	}
	if len(active) == 1 {
		l.broadcastGameState()
		l.endRound(active[0])
		return
	}
	if !l.players[l.currentPlayerIdx].canAct() {
		l.advanceTurn()
	}

	l.broadcastGameState()
	l.notifyCurrentPlayer()
}

func (l *Lobby) postBlinds() {
	sbIdx := (l.dealerPos + 1) % len(l.players)
	bbIdx := (l.dealerPos + 2) % len(l.players)

	sbPlayer := l.players[sbIdx]
	bbPlayer := l.players[bbIdx]

	// The table bet is the largest blind actually posted, so a refused
	// big blind cannot leave the table bet below the small blind.
	sbAmount := l.postBlind(sbPlayer, l.smallBlind, "small blind")
	bbAmount := l.postBlind(bbPlayer, l.bigBlind, "big blind")
	l.currentBet = bbAmount
	if sbAmount > l.currentBet {
		l.currentBet = sbAmount
	}
}

// postBlind moves min(blind, balance) from the player's wallet into the
// pot. A wallet failure folds the seat for this hand instead of aborting
// the round.
func (l *Lobby) postBlind(p *PokerPlayer, blind int64, blindName string) int64 {
	amount := blind
	if p.Balance < amount {
		amount = p.Balance
	}
	if amount > 0 {
		err := l.wallet.DeductBalance(p.PlayerID, amount, gameTypePoker, "posted "+blindName)
		if err != nil {
			l.logger.Error().Str("player", p.Name).Msgf("Failed to post %s: %s", blindName, err)
			p.HasFolded = true
			l.addLog("%s cannot post %s and sits out", p.Name, blindName)
			return 0
		}
		l.refreshBalance(p, p.Balance-amount)
	}

	p.CurrentBet = amount
	l.pot += amount
	if p.Balance == 0 {
		p.IsAllIn = true
	}
	l.addLog("%s posts %s ₹%d", p.Name, blindName, amount)
	return amount
}

// applyAction validates and applies one betting action. On a returned
// error no round state has been mutated and no chips have moved.
func (l *Lobby) applyAction(p *PokerPlayer, action PlayerAction) error {
	switch action.Action {
	case ActionFold:
		p.HasFolded = true
		l.addLog("%s folds", p.Name)

	case ActionCheck:
		if p.CurrentBet < l.currentBet {
			return ErrCannotCheck
		}
		l.addLog("%s checks", p.Name)

	case ActionCall:
		callAmount := l.currentBet - p.CurrentBet
		if callAmount > p.Balance {
			callAmount = p.Balance
		}
		if callAmount > 0 {
			err := l.wallet.DeductBalance(p.PlayerID, callAmount, gameTypePoker, fmt.Sprintf("called ₹%d", callAmount))
			if err != nil {
				l.logger.Warn().Str("player", p.Name).Msgf("Call rejected by wallet: %s", err)
				return ErrInsufficientFunds
			}
			l.refreshBalance(p, p.Balance-callAmount)
		}
		p.CurrentBet += callAmount
		l.pot += callAmount
		if p.Balance == 0 {
			p.IsAllIn = true
		}
		l.addLog("%s calls ₹%d", p.Name, callAmount)

	case ActionRaise:
		if action.Amount <= l.currentBet {
			return ErrRaiseTooLow
		}
		if action.Amount > p.Balance+p.CurrentBet {
			return ErrRaiseExceedsBalance
		}
		delta := action.Amount - p.CurrentBet
		err := l.wallet.DeductBalance(p.PlayerID, delta, gameTypePoker, fmt.Sprintf("raised to ₹%d", action.Amount))
		if err != nil {
			l.logger.Warn().Str("player", p.Name).Msgf("Raise rejected by wallet: %s", err)
			return ErrInsufficientFunds
		}
		l.refreshBalance(p, p.Balance-delta)
		p.CurrentBet = action.Amount
		l.pot += delta
		l.currentBet = action.Amount
		l.lastRaiserIdx = l.currentPlayerIdx
		if p.Balance == 0 {
			p.IsAllIn = true
		}
		l.addLog("%s raises to ₹%d", p.Name, action.Amount)

	case ActionAllIn:
		allInAmount := p.Balance
		if allInAmount > 0 {
			err := l.wallet.DeductBalance(p.PlayerID, allInAmount, gameTypePoker, fmt.Sprintf("went all-in with ₹%d", allInAmount))
			if err != nil {
				l.logger.Warn().Str("player", p.Name).Msgf("All-in rejected by wallet: %s", err)
				return ErrInsufficientFunds
			}
			l.refreshBalance(p, 0)
		}
		p.CurrentBet += allInAmount
		l.pot += allInAmount
		p.IsAllIn = true
		if p.CurrentBet > l.currentBet {
			// An all-in above the table bet acts as a raise.
			l.currentBet = p.CurrentBet
			l.lastRaiserIdx = l.currentPlayerIdx
		}
		l.addLog("%s goes all-in with ₹%d", p.Name, allInAmount)

	default:
		return ErrUnknownAction
	}

	p.hasActed = true
	return nil
}

// refreshBalance re-reads the wallet after a mutation. The fallback is
// the locally computed amount, used only when the wallet read fails.
func (l *Lobby) refreshBalance(p *PokerPlayer, fallback int64) {
	balance, err := l.wallet.GetBalance(p.PlayerID)
	if err != nil {
		l.logger.Warn().Str("player", p.Name).Msgf("Failed to refresh balance, using local value: %s", err)
		p.Balance = fallback
		return
	}
	p.Balance = balance
}

func (l *Lobby) activePlayers() []*PokerPlayer {
	active := make([]*PokerPlayer, 0, len(l.players))
	for _, p := range l.players {
		if !p.HasFolded {
			active = append(active, p)
		}
	}
	return active
}

func (l *Lobby) playersToAct() []*PokerPlayer {
	toAct := make([]*PokerPlayer, 0, len(l.players))
	for _, p := range l.players {
		if p.canAct() {
			toAct = append(toAct, p)
		}
	}
	return toAct
}

// advanceGame runs after every applied action (and after forced folds):
// end the hand if one player remains, otherwise move the turn pointer
// and either close the street or ask the next player to act.
func (l *Lobby) advanceGame() {
	active := l.activePlayers()
	if len(active) == 1 {
		l.endRound(active[0])
		return
	}

	l.advanceTurn()

	if l.isStreetComplete() {
		l.advancePhase()
		return
	}

	l.broadcastGameState()
	l.notifyCurrentPlayer()
}

// advanceTurn moves the pointer forward past folded and all-in seats. If
// no eligible seat exists the pointer returns to where it started; the
// street-completion check handles that case.
func (l *Lobby) advanceTurn() {
	start := l.currentPlayerIdx
	for {
		l.currentPlayerIdx = (l.currentPlayerIdx + 1) % len(l.players)
		if l.players[l.currentPlayerIdx].canAct() || l.currentPlayerIdx == start {
			return
		}
	}
}

// isStreetComplete: every player still able to act has matched the table
// bet, and the betting has circled back to the last raiser, or fewer
// than 2 players can act, or everyone able to act already has.
func (l *Lobby) isStreetComplete() bool {
	toAct := l.playersToAct()
	for _, p := range toAct {
		if p.CurrentBet != l.currentBet {
			return false
		}
	}
	if len(toAct) < 2 {
		return true
	}
	if l.currentPlayerIdx == l.lastRaiserIdx {
		return true
	}
	for _, p := range toAct {
		if !p.hasActed {
			return false
		}
	}
	return true
}

// advancePhase closes the street and deals the next one. When at most
// one non-folded player is not all-in, no further betting is possible:
// the remaining board is revealed and the hand goes to showdown.
func (l *Lobby) advancePhase() {
	for _, p := range l.players {
		p.resetForNewStreet()
	}
	l.currentBet = 0
	l.lastRaiserIdx = -1

	notAllIn := 0
	for _, p := range l.activePlayers() {
		if !p.IsAllIn {
			notAllIn++
		}
	}
	if notAllIn <= 1 {
		l.revealAllCards()
		return
	}

	switch l.phase {
	case PreFlop:
		l.deck.Burn()
		l.communityCards = append(l.communityCards, l.deck.Draw(3)...)
		l.phase = Flop
		l.addLog("Flop dealt")
	case Flop:
		l.deck.Burn()
		l.communityCards = append(l.communityCards, l.deck.Draw(1)...)
		l.phase = Turn
		l.addLog("Turn dealt")
	case Turn:
		l.deck.Burn()
		l.communityCards = append(l.communityCards, l.deck.Draw(1)...)
		l.phase = River
		l.addLog("River dealt")
	case River:
		l.showdown()
		return
	}

	// First to act post-flop is the first eligible seat after the dealer.
	idx := (l.dealerPos + 1) % len(l.players)
	for !l.players[idx].canAct() {
		idx = (idx + 1) % len(l.players)
	}
	l.currentPlayerIdx = idx

	l.broadcastGameState()
	l.notifyCurrentPlayer()
}

// revealAllCards deals out the remaining board with burns, then goes to
// showdown. Round structure guarantees the deck cannot run dry here; the
// guards mirror the dealing loop's shape rather than an expected case.
func (l *Lobby) revealAllCards() {
	for len(l.communityCards) < 5 && !l.deck.Empty() {
		l.deck.Burn()
		if !l.deck.Empty() {
			l.communityCards = append(l.communityCards, l.deck.Draw(1)...)
		}
	}
	l.showdown()
}

type playerHandResult struct {
	player *PokerPlayer
	result poker.HandResult
}

// showdown evaluates every non-folded hand and pays the single best one
// the entire pot. Tied hands and uneven all-in stacks are not split; the
// first hand in ranked order takes everything.
func (l *Lobby) showdown() {
	l.phase = Showdown

	active := l.activePlayers()
	results := make([]playerHandResult, len(active))
	for i, p := range active {
		results[i] = playerHandResult{
			player: p,
			result: poker.Evaluate(p.Hand, l.communityCards),
		}
	}

	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].result.Beats(results[j-1].result); j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}

	winner := results[0]
	amount := l.pot
	l.creditWinner(winner.player, amount, fmt.Sprintf("Won pot: ₹%d", amount))
	l.pot = 0
	l.addLog("%s wins ₹%d with %s!", winner.player.Name, amount, winner.result.Description)

	resultViews := make([]ShowdownPlayerResult, len(results))
	for i, r := range results {
		cards := make([]string, len(r.result.Best))
		for j, card := range r.result.Best {
			cards[j] = card.String()
		}
		resultViews[i] = ShowdownPlayerResult{
			PlayerName: r.player.Name,
			Hand:       r.result.Description,
			Cards:      cards,
		}
	}

	l.receiver.SendToLobby(l.code, EventShowdownResult, ShowdownEvent{
		Winner:  winner.player.Name,
		Amount:  amount,
		Hand:    winner.result.Description,
		Results: resultViews,
	})

	l.scheduleNextHand(l.delays.ShowdownResult)
}

// endRound pays the last player standing without a showdown; no hands
// are revealed and no ShowdownResult event is emitted.
func (l *Lobby) endRound(winner *PokerPlayer) {
	l.phase = Showdown

	amount := l.pot
	l.creditWinner(winner, amount, "Won pot (all others folded)")
	l.pot = 0
	l.addLog("%s wins ₹%d (all others folded)", winner.Name, amount)

	l.receiver.SendToLobby(l.code, EventRoundWinner, RoundWinnerEvent{
		Winner: winner.Name,
		Amount: amount,
	})

	l.scheduleNextHand(l.delays.RoundWinner)
}

// creditWinner pays out through the wallet. A failed credit is retried;
// if it still fails it is logged with the full amount so it can be
// reconciled, never silently dropped.
func (l *Lobby) creditWinner(p *PokerPlayer, amount int64, note string) {
	if amount <= 0 {
		return
	}

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = l.wallet.AddBalance(p.PlayerID, amount, gameTypePoker, note)
		if err == nil {
			break
		}
		l.logger.Warn().Str("player", p.Name).Msgf("Wallet credit attempt %d failed: %s", attempt+1, err)
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		l.logger.Error().
			Str("player", p.Name).
			Str("playerID", p.PlayerID).
			Int64("amount", amount).
			Msgf("Failed to credit pot after retries: %s", err)
	}
	l.refreshBalance(p, p.Balance+amount)
}

// notifyCurrentPlayer asks the seat on turn to act. A disconnected seat
// is folded on the spot and the round moves on without ever sending it a
// turn notification.
func (l *Lobby) notifyCurrentPlayer() {
	current := l.players[l.currentPlayerIdx]
	if !current.IsActive {
		current.HasFolded = true
		l.addLog("%s folds (disconnected)", current.Name)
		l.advanceGame()
		return
	}
	l.receiver.SendToPlayer(current.ConnID, EventYourTurn, nil)
}

func (l *Lobby) scheduleNextHand(delayMillis uint32) {
	delay := time.Duration(delayMillis) * time.Millisecond
	if util.Env.ShouldDisableDelays() {
		delay = 0
	}
	l.handTimer.Schedule(delay)
}
