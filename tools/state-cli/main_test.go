// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/soros1321/polkadot/executor/native"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"state-cli", "--verbosity", "0"}, args...))
	return out.String(), err
}

func TestStateCli_CallsArePersisted(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	flags := []string{"--dir", dir, "--variant", "ldb"}

	_, err := run(t, append(flags, "init", "kv")...)
	require.NoError(err)

	entry := hexutil.Encode(native.EncodeEntry([]byte("k"), []byte("v")))
	_, err = run(t, append(flags, "call", "set", entry)...)
	require.NoError(err)

	out, err := run(t, append(flags, "get", hexutil.Encode([]byte("k")))...)
	require.NoError(err)
	require.Equal(hexutil.Encode([]byte("v")), strings.TrimSpace(out))

	list := hexutil.Encode(native.EncodeList([][]byte{{0xaa}, {0xbb}}))
	_, err = run(t, append(flags, "call", "set_validators", list)...)
	require.NoError(err)

	out, err = run(t, append(flags, "validators")...)
	require.NoError(err)
	require.Equal("0: 0xaa\n1: 0xbb\n", out)

	out, err = run(t, append(flags, "info")...)
	require.NoError(err)
	require.Contains(out, "Validators: 2")
}

func TestStateCli_SnapshotsCanBeTransferredBetweenVariants(t *testing.T) {
	require := require.New(t)
	source := []string{"--dir", t.TempDir(), "--variant", "ldb"}
	target := []string{"--dir", t.TempDir(), "--variant", "sqlite", "--cache", "16"}
	file := filepath.Join(t.TempDir(), "state.snapshot")

	_, err := run(t, append(source, "init", "kv")...)
	require.NoError(err)
	entry := hexutil.Encode(native.EncodeEntry([]byte("k"), []byte("v")))
	_, err = run(t, append(source, "call", "set", entry)...)
	require.NoError(err)

	out, err := run(t, append(source, "export", file)...)
	require.NoError(err)
	require.Contains(out, "Exported 2 entries")

	out, err = run(t, append(target, "import", file)...)
	require.NoError(err)
	require.Contains(out, "Imported 2 entries")

	out, err = run(t, append(target, "get", "6b")...)
	require.NoError(err)
	require.Equal("0x76", strings.TrimSpace(out))
}

func TestStateCli_InvalidUsageIsReported(t *testing.T) {
	dir := t.TempDir()
	tests := map[string][]string{
		"unknown module":  {"--dir", dir, "init", "unknown"},
		"missing key":     {"--dir", dir, "get"},
		"invalid key":     {"--dir", dir, "get", "xyz"},
		"unknown variant": {"--variant", "unknown", "info"},
		"failing call":    {"--dir", dir, "call", "set"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, args...)
			require.Error(t, err)
		})
	}
}
