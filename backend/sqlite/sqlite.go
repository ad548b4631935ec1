// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
)

const (
	createTable = "CREATE TABLE IF NOT EXISTS storage (key BLOB PRIMARY KEY, value BLOB NOT NULL)"
	selectValue = "SELECT value FROM storage WHERE key = ?"
	upsertValue = "INSERT OR REPLACE INTO storage(key, value) VALUES (?, ?)"
	deleteValue = "DELETE FROM storage WHERE key = ?"
	selectAll   = "SELECT key, value FROM storage ORDER BY key"
)

// FileName is the name of the database file within the store's directory.
const FileName = "state.sqlite"

// Store is a key-value store persisting its content in a SQLite database.
type Store struct {
	db   *sql.DB
	read *sql.Stmt
}

// Open opens or creates a SQLite store in the given directory.
func Open(directory string) (_ *Store, err error) {
	db, err := sql.Open("sqlite3", filepath.Join(directory, FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	success := false
	defer func() {
		if !success {
			err = errors.Join(err, db.Close())
		}
	}()

	if _, err := db.Exec(createTable); err != nil {
		return nil, fmt.Errorf("failed to create storage table: %w", err)
	}
	read, err := db.Prepare(selectValue)
	if err != nil {
		return nil, err
	}
	success = true
	return &Store{db: db, read: read}, nil
}

func (s *Store) Storage(key []byte) ([]byte, error) {
	var value []byte
	err := s.read.QueryRow(key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return value, err
}

func (s *Store) Code() ([]byte, error) {
	return s.Storage([]byte(statemachine.CodeKey))
}

// Apply writes all updates within a single transaction.
func (s *Store) Apply(updates []common.Update) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	upsert, err := tx.Prepare(upsertValue)
	if err != nil {
		return err
	}
	defer upsert.Close()
	remove, err := tx.Prepare(deleteValue)
	if err != nil {
		return err
	}
	defer remove.Close()

	for _, update := range updates {
		if update.IsDeletion() {
			_, err = remove.Exec(update.Key)
		} else {
			_, err = upsert.Exec(update.Key, update.Value)
		}
		if err != nil {
			return fmt.Errorf("failed to write key %x: %w", update.Key, err)
		}
	}
	return tx.Commit()
}

// ForEach visits all entries in key order.
func (s *Store) ForEach(visit func(key, value []byte) error) error {
	rows, err := s.db.Query(selectAll)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		if err := visit(key, value); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) Close() error {
	return errors.Join(
		s.read.Close(),
		s.db.Close(),
	)
}
