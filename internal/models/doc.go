// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - PersonalExpense: a dated, categorized entry in the personal ledger
//   - GroupExpense: a shared cost split equally among named participants
//   - ExplodedRow: one (group expense, participant) pair, the unit every
//     balance aggregation works on
//
// Participants are identified by name strings. There are no user accounts.
//
// # Design Principles
//
//  1. **Immutable records**: entries are created complete and never edited
//  2. **Decimal money**: every amount is a decimal.Decimal, never a float64
//  3. **Fixed schemas**: parallel per-participant columns are checked at construction
package models
