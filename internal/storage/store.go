package storage

import (
	"database/sql"

	"fundflow/internal/logging"
)

// querier is satisfied by both *sql.DB and *sql.Tx so that every Store
// operation can run standalone or inside a transaction
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Store provides entity operations over a connection or transaction
type Store struct {
	q      querier
	logger *logging.Logger
}

// NewStore creates a store bound to the database connection
func NewStore(db *DB) *Store {
	return &Store{q: db.conn, logger: db.logger}
}

// Transact runs fn with a Store bound to a transaction. The transaction is
// committed only if fn returns nil; any error rolls back every write.
func (db *DB) Transact(fn func(*Store) error) error {
	return db.WithTx(func(tx *sql.Tx) error {
		return fn(&Store{q: tx, logger: db.logger})
	})
}
