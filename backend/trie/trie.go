// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package trie

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
)

// Trie is an in-memory, versioned key-value store organized as a 256-ary
// trie indexed by key bytes. Every Apply produces a new version sharing all
// unmodified nodes with its predecessor. Each version is summarized by a
// Keccak256 root hash.
type Trie struct {
	mu    sync.Mutex
	roots []*node // < roots of versions 1..n; version 0 is the empty trie
}

// View is a read-only backend on a single version of a trie.
type View struct {
	trie *Trie
	root *node
}

type node struct {
	children [256]*node
	value    []byte
	hash     *common.Hash // < lazily computed, nodes are immutable
}

var emptyHash = common.Keccak256(nil)

func New() *Trie {
	return &Trie{}
}

// Version returns the current version of the trie, which is the number of
// Apply calls so far.
func (t *Trie) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return uint64(len(t.roots))
}

// At returns a read-only view of the given version.
func (t *Trie) At(version uint64) (*View, error) {
	root, found := t.getRoot(version)
	if !found {
		return nil, fmt.Errorf("no such version: %d", version)
	}
	return &View{trie: t, root: root}, nil
}

func (t *Trie) head() *node {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.roots) == 0 {
		return nil
	}
	return t.roots[len(t.roots)-1]
}

func (t *Trie) getRoot(version uint64) (*node, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if version == 0 {
		return nil, true
	}
	if version > uint64(len(t.roots)) {
		return nil, false
	}
	return t.roots[version-1], true
}

func (t *Trie) Storage(key []byte) ([]byte, error) {
	return bytes.Clone(getValue(t.head(), key)), nil
}

func (t *Trie) Code() ([]byte, error) {
	return t.Storage([]byte(statemachine.CodeKey))
}

// Apply derives a new version from the current one.
func (t *Trie) Apply(updates []common.Update) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var root *node
	if len(t.roots) > 0 {
		root = t.roots[len(t.roots)-1]
	}
	for _, update := range updates {
		root = setValue(root, update.Key, update.Value)
	}
	t.roots = append(t.roots, root)
	return nil
}

// Hash returns the root hash of the current version.
func (t *Trie) Hash() common.Hash {
	root := t.head()
	t.mu.Lock()
	defer t.mu.Unlock()
	return hashNode(root)
}

// ForEach visits all entries of the current version in key order.
func (t *Trie) ForEach(visit func(key, value []byte) error) error {
	return forEach(t.head(), nil, visit)
}

func (t *Trie) Close() error {
	return nil
}

func (v *View) Storage(key []byte) ([]byte, error) {
	return bytes.Clone(getValue(v.root, key)), nil
}

func (v *View) Code() ([]byte, error) {
	return v.Storage([]byte(statemachine.CodeKey))
}

func (v *View) Hash() common.Hash {
	v.trie.mu.Lock()
	defer v.trie.mu.Unlock()
	return hashNode(v.root)
}

func getValue(n *node, path []byte) []byte {
	if n == nil {
		return nil
	}
	if len(path) == 0 {
		return n.value
	}
	return getValue(n.children[path[0]], path[1:])
}

// setValue returns a copy of the given node with the value at the given path
// replaced. Empty values remove entries, and nodes without value and
// children are pruned.
func setValue(n *node, path []byte, value []byte) *node {
	res := &node{}
	if n == nil {
		if len(value) == 0 {
			return nil
		}
	} else {
		res.children = n.children
		res.value = n.value
	}
	if len(path) == 0 {
		res.value = bytes.Clone(value)
	} else {
		res.children[path[0]] = setValue(res.children[path[0]], path[1:], value)
	}
	if len(res.value) == 0 && res.children == [256]*node{} {
		return nil
	}
	return res
}

// hashNode must be called with the trie lock held, since hashes are cached
// in the nodes.
func hashNode(n *node) common.Hash {
	if n == nil {
		return emptyHash
	}
	if n.hash != nil {
		return *n.hash
	}
	data := make([]byte, 0, 256*len(emptyHash)+len(n.value))
	for _, child := range n.children {
		hash := hashNode(child)
		data = append(data, hash[:]...)
	}
	data = append(data, n.value...)
	hash := common.Keccak256(data)
	n.hash = &hash
	return hash
}

func forEach(n *node, prefix []byte, visit func(key, value []byte) error) error {
	if n == nil {
		return nil
	}
	if len(n.value) > 0 {
		if err := visit(bytes.Clone(prefix), bytes.Clone(n.value)); err != nil {
			return err
		}
	}
	for i, child := range n.children {
		if err := forEach(child, append(prefix, byte(i)), visit); err != nil {
			return err
		}
	}
	return nil
}
