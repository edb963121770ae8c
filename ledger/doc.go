// Package ledger keeps a tamper-evident record of every event of a sabacc
// table.
//
// # Core Components
//
// Blockchain: an append-only log of hand events. Each block carries the hash
// of the previous one and a Schnorr signature of its own hash made with the
// table's Ed25519 key.
//
// Block: a single event stripped of its snapshot, with the hand it belongs
// to and its position in the chain.
//
// # Usage
//
// Register a Blockchain as an observer of every hand. The Verify method can
// be called at any time to check that the chain is intact and that every
// block was signed by the table key.
package ledger
