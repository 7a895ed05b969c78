// Package session keeps each browser session's in-memory ledgers.
package session

import "github.com/mmynk/splitledger/internal/ledger"

// State is everything one session owns. The zero value is an empty session.
type State struct {
	Personal ledger.Personal
	Group    ledger.Group
}
