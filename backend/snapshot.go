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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/soros1321/polkadot/common"
)

// Snapshots are snappy-framed streams starting with a magic header followed
// by a sequence of records. Each record is a key and a value, both prefixed
// by their uvarint encoded length.

const ErrInvalidSnapshot = common.ConstError("invalid snapshot")

var snapshotMagic = []byte("STATESNAPSHOT\x01")

// maxRecordLength bounds the length of individual keys and values to protect
// against corrupted input.
const maxRecordLength = 1 << 30

// importBatchSize is the number of entries applied to a store at once.
const importBatchSize = 1024

// Export writes all entries of the given store to the writer and returns
// the number of exported entries.
func Export(store Store, out io.Writer) (int, error) {
	writer := snappy.NewBufferedWriter(out)
	if _, err := writer.Write(snapshotMagic); err != nil {
		return 0, errors.Join(err, writer.Close())
	}
	count := 0
	var buffer [binary.MaxVarintLen64]byte
	writeField := func(data []byte) error {
		n := binary.PutUvarint(buffer[:], uint64(len(data)))
		if _, err := writer.Write(buffer[:n]); err != nil {
			return err
		}
		_, err := writer.Write(data)
		return err
	}
	err := store.ForEach(func(key, value []byte) error {
		if err := writeField(key); err != nil {
			return err
		}
		if err := writeField(value); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return 0, errors.Join(err, writer.Close())
	}
	if err := writer.Close(); err != nil {
		return 0, err
	}
	return count, nil
}

// Import applies all entries of the snapshot read from the given reader to
// the store and returns the number of imported entries. Entries of the store
// not covered by the snapshot are left untouched.
func Import(store Store, in io.Reader) (int, error) {
	reader := bufio.NewReader(snappy.NewReader(in))
	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(reader, magic); err != nil {
		return 0, fmt.Errorf("%w: failed to read header: %w", ErrInvalidSnapshot, err)
	}
	if !bytes.Equal(magic, snapshotMagic) {
		return 0, fmt.Errorf("%w: unexpected header %x", ErrInvalidSnapshot, magic)
	}

	count := 0
	batch := make([]common.Update, 0, importBatchSize)
	for {
		key, err := readField(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		value, err := readField(reader)
		if err == io.EOF {
			err = fmt.Errorf("%w: %w", ErrInvalidSnapshot, io.ErrUnexpectedEOF)
		}
		if err != nil {
			return count, err
		}
		if len(value) == 0 {
			return count, fmt.Errorf("%w: empty value for key %x", ErrInvalidSnapshot, key)
		}
		batch = append(batch, common.Update{Key: key, Value: value})
		if len(batch) == importBatchSize {
			if err := store.Apply(batch); err != nil {
				return count, err
			}
			count += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := store.Apply(batch); err != nil {
			return count, err
		}
		count += len(batch)
	}
	return count, nil
}

// readField reads a length-prefixed byte string. io.EOF is only returned if
// the reader is exhausted before the first byte of the field.
func readField(reader *bufio.Reader) ([]byte, error) {
	length, err := binary.ReadUvarint(reader)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if length > maxRecordLength {
		return nil, fmt.Errorf("%w: record of %d bytes exceeds limit", ErrInvalidSnapshot, length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return data, nil
}
