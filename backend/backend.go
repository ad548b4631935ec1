// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pbnjay/memory"
	"github.com/soros1321/polkadot/backend/cache"
	"github.com/soros1321/polkadot/backend/ldb"
	mem "github.com/soros1321/polkadot/backend/memory"
	"github.com/soros1321/polkadot/backend/sqlite"
	"github.com/soros1321/polkadot/backend/trie"
	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
)

// Store is a backend which can be modified by applying updates. It is the
// only way committed changes reach persisted state.
type Store interface {
	statemachine.Backend

	// Apply writes the given updates. Updates with an empty value delete
	// their key.
	Apply(updates []common.Update) error

	// ForEach visits all non-empty entries of the store in key order.
	ForEach(visit func(key, value []byte) error) error

	// Close releases all resources held by the store.
	Close() error
}

// Hasher is implemented by stores summarizing their content by a hash.
type Hasher interface {
	Hash() common.Hash
}

// Variant names a store implementation.
type Variant string

const (
	VariantMemory  Variant = "memory"
	VariantLevelDb Variant = "ldb"
	VariantSqlite  Variant = "sqlite"
	VariantTrie    Variant = "trie"
)

const ErrUnknownVariant = common.ConstError("unknown backend variant")

// Parameters configure the store created by Open.
type Parameters struct {
	Variant   Variant
	Directory string // < required by persisted variants
	CacheSize int    // < number of entries of an LRU read cache, 0 for none
	LdbCache  int    // < LevelDB block cache in bytes, 0 for the default
}

const (
	defaultLdbCache = 16 << 20
	// The LevelDB block cache never exceeds this fraction of the physical memory.
	ldbCacheMemoryFraction = 8
)

// Variants lists all supported store variants.
func Variants() []Variant {
	return []Variant{VariantMemory, VariantLevelDb, VariantSqlite, VariantTrie}
}

// Open creates a store as described by the given parameters.
func Open(params Parameters) (Store, error) {
	store, err := open(params)
	if err != nil {
		return nil, err
	}
	log.Info("Opened state backend", "variant", params.Variant, "dir", params.Directory, "cache", params.CacheSize)
	if params.CacheSize <= 0 {
		return store, nil
	}
	cached, err := cache.New(store, params.CacheSize)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}
	return cached, nil
}

func open(params Parameters) (Store, error) {
	switch params.Variant {
	case VariantMemory:
		return mem.New(), nil
	case VariantTrie:
		return trie.New(), nil
	case VariantLevelDb:
		if err := prepareDirectory(params); err != nil {
			return nil, err
		}
		store, err := ldb.Open(filepath.Join(params.Directory, "ldb"), ldbCacheSize(params.LdbCache, memory.TotalMemory()))
		if err != nil {
			return nil, err
		}
		return store, nil
	case VariantSqlite:
		if err := prepareDirectory(params); err != nil {
			return nil, err
		}
		store, err := sqlite.Open(params.Directory)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, params.Variant)
}

func prepareDirectory(params Parameters) error {
	if params.Directory == "" {
		return fmt.Errorf("variant %s requires a directory", params.Variant)
	}
	if err := os.MkdirAll(params.Directory, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", params.Directory, err)
	}
	return nil
}

// ldbCacheSize determines the LevelDB block cache size for a requested size
// and the total physical memory of the host, which is 0 if unknown.
func ldbCacheSize(requested int, totalMemory uint64) int {
	size := requested
	if size <= 0 {
		size = defaultLdbCache
	}
	if totalMemory == 0 {
		return size
	}
	if limit := totalMemory / ldbCacheMemoryFraction; uint64(size) > limit {
		return int(limit)
	}
	return size
}
