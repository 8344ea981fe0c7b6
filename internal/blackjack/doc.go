// Package blackjack implements a single-player blackjack table: hands, the
// player's bankroll and the round state machine that deals from a provably
// fair shoe.
//
// A round moves through Betting, Dealing, PlayerTurn, DealerTurn, Settlement
// and Finished. Every command returns false and leaves the state untouched
// when it is not legal. The dealer takes no hole-card peek: a dealer natural
// is only settled once the player has finished acting.
package blackjack
