package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/suites"
)

// ErrInvalidChain is returned by Verify when a block does not fit the chain.
var ErrInvalidChain = errors.New("invalid chain")

// Blockchain is safe for concurrent use.
type Blockchain struct {
	// ID names the chain; the genesis block carries it.
	ID string

	mu      sync.RWMutex
	blocks  []Block
	suite   suites.Suite
	private kyber.Scalar
	public  kyber.Point
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Blockchain.
type Option func(*Blockchain)

// WithKey signs blocks with private instead of a fresh random key.
func WithKey(private kyber.Scalar) Option {
	return func(bc *Blockchain) { bc.private = private }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(bc *Blockchain) { bc.log = l }
}

// WithClock replaces time.Now for block timestamps.
func WithClock(now func() time.Time) Option {
	return func(bc *Blockchain) { bc.now = now }
}

// Suite is the group table keys live in.
func Suite() suites.Suite { return suites.MustFind("Ed25519") }

// NewKey returns a random private key of Suite.
func NewKey() kyber.Scalar {
	s := Suite()
	return s.Scalar().Pick(s.RandomStream())
}

// NewBlockchain creates a chain holding only its genesis block, whose
// previous hash is "0".
func NewBlockchain(opts ...Option) (*Blockchain, error) {
	bc := &Blockchain{
		ID:    uuid.NewString(),
		suite: Suite(),
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(bc)
	}
	if bc.private == nil {
		bc.private = bc.suite.Scalar().Pick(bc.suite.RandomStream())
	}
	bc.public = bc.suite.Point().Mul(bc.private, nil)

	genesis := Block{
		Timestamp: bc.now().Unix(),
		PrevHash:  "0",
		Entry:     Entry{HandID: bc.ID, Kind: "genesis", Seat: sabacc.NoSeat, Target: sabacc.NoSeat},
	}
	if err := bc.seal(&genesis); err != nil {
		return nil, err
	}
	bc.blocks = append(bc.blocks, genesis)
	return bc, nil
}

// PublicKey returns the point that verifies the chain's signatures.
func (bc *Blockchain) PublicKey() kyber.Point { return bc.public }

// Observe records e. It lets the chain be registered on a hand.
func (bc *Blockchain) Observe(e sabacc.Event) {
	if _, err := bc.Append(EntryOf(e)); err != nil {
		bc.log.Error("event not recorded", "hand", e.HandID, "seq", e.Seq, "err", err)
	}
}

// Append adds a block for entry and returns it.
func (bc *Blockchain) Append(entry Entry) (Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	latest := bc.blocks[len(bc.blocks)-1]
	b := Block{
		Index:     latest.Index + 1,
		Timestamp: bc.now().Unix(),
		PrevHash:  latest.Hash,
		Entry:     entry,
	}
	if err := bc.seal(&b); err != nil {
		return Block{}, err
	}
	if err := bc.validateBlock(b, latest); err != nil {
		return Block{}, fmt.Errorf("invalid block: %w", err)
	}
	bc.blocks = append(bc.blocks, b)
	return b, nil
}

func (bc *Blockchain) seal(b *Block) error {
	hash, err := calculateHash(*b)
	if err != nil {
		return err
	}
	b.Hash = hash
	sig, err := schnorr.Sign(bc.suite, bc.private, []byte(hash))
	if err != nil {
		return fmt.Errorf("signing block %d: %w", b.Index, err)
	}
	b.Signature = sig
	return nil
}

// Latest returns the most recently added block.
func (bc *Blockchain) Latest() Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.blocks[len(bc.blocks)-1]
}

// ByIndex returns the block at index.
func (bc *Blockchain) ByIndex(index int) (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if index < 0 || index >= len(bc.blocks) {
		return Block{}, fmt.Errorf("index %d out of range", index)
	}
	return bc.blocks[index], nil
}

// Len returns the number of blocks, genesis included.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.blocks)
}

// Blocks returns a copy of the chain.
func (bc *Blockchain) Blocks() []Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return append([]Block(nil), bc.blocks...)
}

// Hand returns the entries recorded for one hand, in order.
func (bc *Blockchain) Hand(handID string) []Entry {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	var entries []Entry
	for _, b := range bc.blocks[1:] {
		if b.Entry.HandID == handID {
			entries = append(entries, b.Entry)
		}
	}
	return entries
}

// Verify checks the genesis block, then every block's index, link, hash and
// signature.
func (bc *Blockchain) Verify() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return VerifyBlocks(bc.blocks, bc.public)
}

// VerifyBlocks checks a chain received from elsewhere against the public key
// of the table that signed it.
func VerifyBlocks(blocks []Block, public kyber.Point) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidChain)
	}
	genesis := blocks[0]
	if genesis.Index != 0 || genesis.PrevHash != "0" {
		return fmt.Errorf("%w: bad genesis block", ErrInvalidChain)
	}
	g := Suite()
	for i, b := range blocks {
		if i > 0 {
			if err := validateLink(b, blocks[i-1]); err != nil {
				return fmt.Errorf("%w: block %d: %v", ErrInvalidChain, i, err)
			}
		}
		hash, err := calculateHash(b)
		if err != nil {
			return err
		}
		if b.Hash != hash {
			return fmt.Errorf("%w: block %d: hash mismatch", ErrInvalidChain, i)
		}
		if err := schnorr.Verify(g, public, []byte(b.Hash), b.Signature); err != nil {
			return fmt.Errorf("%w: block %d: signature: %v", ErrInvalidChain, i, err)
		}
	}
	return nil
}

func (bc *Blockchain) validateBlock(current, previous Block) error {
	if err := validateLink(current, previous); err != nil {
		return err
	}
	expected, err := calculateHash(current)
	if err != nil {
		return err
	}
	if current.Hash != expected {
		return fmt.Errorf("invalid hash: expected %s, got %s", expected, current.Hash)
	}
	return nil
}

func validateLink(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}
	return nil
}

// calculateHash hashes the index, timestamp, previous hash and JSON entry.
func calculateHash(b Block) (string, error) {
	entry, err := json.Marshal(b.Entry)
	if err != nil {
		return "", fmt.Errorf("encoding block %d: %w", b.Index, err)
	}
	data := fmt.Sprintf("%d%d%s%s", b.Index, b.Timestamp, b.PrevHash, entry)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:]), nil
}
