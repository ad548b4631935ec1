// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ldb

import (
	"fmt"

	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Store is a key-value store persisting its content in a LevelDB instance.
type Store struct {
	db *leveldb.DB
}

// Open opens or creates a LevelDB store in the given directory. A positive
// cacheSize sets the block cache capacity in bytes.
func Open(path string, cacheSize int) (*Store, error) {
	options := &opt.Options{}
	if cacheSize > 0 {
		options.BlockCacheCapacity = cacheSize
	}
	db, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open LevelDB in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Storage(key []byte) ([]byte, error) {
	data, err := s.db.Get(key, &opt.ReadOptions{})
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	return data, err
}

func (s *Store) Code() ([]byte, error) {
	return s.Storage([]byte(statemachine.CodeKey))
}

// Apply writes all updates in a single atomic batch.
func (s *Store) Apply(updates []common.Update) error {
	batch := new(leveldb.Batch)
	for _, update := range updates {
		if update.IsDeletion() {
			batch.Delete(update.Key)
		} else {
			batch.Put(update.Key, update.Value)
		}
	}
	return s.db.Write(batch, &opt.WriteOptions{})
}

// ForEach visits all entries in key order.
func (s *Store) ForEach(visit func(key, value []byte) error) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		// the iterator reuses its buffers, so entries are copied
		key := append([]byte(nil), iter.Key()...)
		value := append([]byte(nil), iter.Value()...)
		if err := visit(key, value); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *Store) Close() error {
	return s.db.Close()
}
