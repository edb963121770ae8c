// Package store persists settled hands and ledger blocks in PostgreSQL.
package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
	"github.com/luca-patrignani/sabacc/ledger"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(ctx context.Context, dsn string) (*DB, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close()                         { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

var seatColumns = []string{"hand_id", "seat", "name", "start_stack", "stack", "won", "score", "busted", "override"}

// seatRows lays out one hand_seats row per seat. Score columns stay NULL for
// seats that did not show their hand.
func seatRows(res sabacc.Result, names []string) [][]any {
	rows := make([][]any, len(res.Stacks))
	for i, stack := range res.Stacks {
		name := fmt.Sprintf("seat %d", i)
		if i < len(names) {
			name = names[i]
		}
		var score, busted, override any
		if sc, ok := res.Scores[i]; ok {
			score, busted, override = sc.Value, sc.Busted, sc.Override
		}
		start, won := stack, 0
		if i < len(res.Starting) {
			start = res.Starting[i]
		}
		if i < len(res.Won) {
			won = res.Won[i]
		}
		rows[i] = []any{res.HandID, i, name, start, stack, won, score, busted, override}
	}
	return rows
}

// SaveHand stores a settled hand and its seats in one transaction.
func (db *DB) SaveHand(ctx context.Context, res sabacc.Result, names []string) error {
	doc, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding hand %s: %w", res.HandID, err)
	}
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO hands(id, dealer, revealed, carry_over, result)
			VALUES ($1,$2,$3,$4,$5)
		`, res.HandID, res.Dealer, res.Revealed, res.CarryOver, doc); err != nil {
			return err
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"hand_seats"}, seatColumns, pgx.CopyFromRows(seatRows(res, names)))
		return err
	})
}

// SaveBlocks stores blocks of the chain chainID, skipping those already
// stored.
func (db *DB) SaveBlocks(ctx context.Context, chainID string, blocks []ledger.Block) error {
	batch := &pgx.Batch{}
	for _, b := range blocks {
		entry, err := json.Marshal(b.Entry)
		if err != nil {
			return fmt.Errorf("encoding block %d: %w", b.Index, err)
		}
		batch.Queue(`
			INSERT INTO ledger_blocks(chain_id, idx, ts, prev_hash, hash, entry, signature)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (chain_id, idx) DO NOTHING
		`, chainID, b.Index, b.Timestamp, b.PrevHash, b.Hash, entry, b.Signature)
	}
	return db.SendBatch(ctx, batch).Close()
}

// LoadBlocks returns the stored blocks of chainID in order.
func (db *DB) LoadBlocks(ctx context.Context, chainID string) ([]ledger.Block, error) {
	rows, err := db.Query(ctx, `
		SELECT idx, ts, prev_hash, hash, entry, signature
		  FROM ledger_blocks
		 WHERE chain_id = $1
		 ORDER BY idx
	`, chainID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ledger.Block, error) {
		var b ledger.Block
		var entry []byte
		if err := row.Scan(&b.Index, &b.Timestamp, &b.PrevHash, &b.Hash, &entry, &b.Signature); err != nil {
			return b, err
		}
		return b, json.Unmarshal(entry, &b.Entry)
	})
}

// Standing is one player's totals over the stored hands.
type Standing struct {
	Name   string `json:"name"`
	Hands  int    `json:"hands"`
	Won    int    `json:"won"`
	Stack  int    `json:"stack"`
	Busted int    `json:"busted"`
}

// Standings sums the stored hands per player name, best winners first.
func (db *DB) Standings(ctx context.Context) ([]Standing, error) {
	rows, err := db.Query(ctx, `
		SELECT s.name,
		       COUNT(*),
		       COALESCE(SUM(s.won), 0),
		       (SELECT s2.stack FROM hand_seats s2 JOIN hands h2 ON h2.id = s2.hand_id
		         WHERE s2.name = s.name ORDER BY h2.created_at DESC LIMIT 1),
		       COUNT(*) FILTER (WHERE s.busted)
		  FROM hand_seats s
		 GROUP BY s.name
		 ORDER BY 3 DESC, s.name
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Standing])
}
