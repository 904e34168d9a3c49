// Package pg implements an object store in a Postgresql database.
package pg

import (
	"context"
	"database/sql"

	"github.com/bobg/sqlutil"
	_ "github.com/lib/pq" // register the postgres type for sql.Open
	"github.com/pkg/errors"

	"github.com/bobg/lit"
	"github.com/bobg/lit/compress"
	"github.com/bobg/lit/store"
)

var _ lit.Store = &Store{}

// Store is a Postgresql-based object store.
type Store struct {
	db *sql.DB
	c  compress.Compressor
}

// Schema is the SQL that New executes.
// It creates the `objects` table if it does not exist.
// (If it does exist, it must have the columns and constraints described here.)
const Schema = `
CREATE TABLE IF NOT EXISTS objects (
  address TEXT PRIMARY KEY NOT NULL,
  data BYTEA NOT NULL
);
`

// New produces a new Store using `db` for storage.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	_, err := db.ExecContext(ctx, Schema)
	return &Store{db: db, c: compress.Default}, errors.Wrap(err, "creating schema")
}

// Get gets the frame with address `addr`.
func (s *Store) Get(ctx context.Context, addr lit.Address) ([]byte, error) {
	const q = `SELECT data FROM objects WHERE address = $1`

	var data []byte
	err := s.db.QueryRowContext(ctx, q, addr.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, lit.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "querying object %s", addr)
	}
	frame, err := s.c.Uncompress(data)
	return frame, errors.Wrapf(err, "uncompressing object %s", addr)
}

// Put adds a frame to the store if it wasn't already present.
func (s *Store) Put(ctx context.Context, frame []byte) (lit.Address, bool, error) {
	const q = `INSERT INTO objects (address, data) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	addr := lit.Digest(frame)
	data, err := s.c.Compress(frame)
	if err != nil {
		return lit.Zero, false, errors.Wrapf(err, "compressing object %s", addr)
	}

	res, err := s.db.ExecContext(ctx, q, addr.String(), data)
	if err != nil {
		return lit.Zero, false, errors.Wrap(err, "inserting object")
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return lit.Zero, false, errors.Wrap(err, "counting affected rows")
	}
	return addr, aff > 0, nil
}

// ListAddresses produces all addresses in the store, in lexicographic order.
func (s *Store) ListAddresses(ctx context.Context, start lit.Address, f func(lit.Address) error) error {
	const q = `SELECT address FROM objects WHERE address > $1 ORDER BY address COLLATE "C"`
	return sqlutil.ForQueryRows(ctx, s.db, q, start.String(), func(h string) error {
		addr, err := lit.AddressFromHex(h)
		if err != nil {
			return errors.Wrapf(err, "decoding address %s", h)
		}
		return f(addr)
	})
}

func init() {
	store.Register("pg", func(ctx context.Context, conf map[string]interface{}) (lit.Store, error) {
		conn, ok := conf["conn"].(string)
		if !ok {
			return nil, errors.New(`missing "conn" parameter`)
		}
		db, err := sql.Open("postgres", conn)
		if err != nil {
			return nil, errors.Wrap(err, "opening db")
		}
		return New(ctx, db)
	})
}
