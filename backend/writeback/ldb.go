// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package writeback provides persistent sinks for the page caches.
package writeback

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/akwong189/h2database-csc468/cache"
	"github.com/akwong189/h2database-csc468/common"
)

// Page is a cache record whose content can be serialized for persistence.
type Page interface {
	cache.Record
	Data() []byte
}

// TableSpace divides the key-value storage into spaces by prefixing the keys.
type TableSpace byte

const (
	// PageKey is the table space for page contents.
	PageKey TableSpace = 'P'
	// DigestKey is the table space for page content digests.
	DigestKey TableSpace = 'd'
	// LogKey is the key of the write-ahead log commit marker.
	LogKey TableSpace = 'L'
)

var syncWrite = &opt.WriteOptions{Sync: true}

// LdbWriter persists evicted pages into a LevelDB instance. Every page write
// stores the content together with its keccak digest; FlushLog commits a
// durable log marker, satisfying the log-before-data requirement of the
// caches.
type LdbWriter struct {
	db      *leveldb.DB
	trace   cache.Trace
	logMark uint64
}

// NewLdbWriter creates a writer persisting pages into the given database.
func NewLdbWriter(db *leveldb.DB, trace cache.Trace) *LdbWriter {
	return &LdbWriter{db: db, trace: trace}
}

func (w *LdbWriter) FlushLog() error {
	w.logMark++
	var value [8]byte
	binary.BigEndian.PutUint64(value[:], w.logMark)
	if err := w.db.Put([]byte{byte(LogKey)}, value[:], syncWrite); err != nil {
		return fmt.Errorf("failed to commit log marker %d; %w", w.logMark, err)
	}
	return nil
}

func (w *LdbWriter) WriteBack(rec cache.Record) error {
	page, ok := rec.(Page)
	if !ok {
		return fmt.Errorf("%w; record %d does not provide page data", common.ErrInvalidValue, rec.Pos())
	}
	data := page.Data()
	digest := common.Keccak256(data)
	batch := new(leveldb.Batch)
	batch.Put(dbKey(PageKey, rec.Pos()), data)
	batch.Put(dbKey(DigestKey, rec.Pos()), digest[:])
	if err := w.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to write back page %d; %w", rec.Pos(), err)
	}
	return nil
}

func (w *LdbWriter) GetTrace() cache.Trace {
	return w.trace
}

// Read loads the content of a page written back earlier, verifying the
// stored digest.
func (w *LdbWriter) Read(pos int32) ([]byte, error) {
	data, err := w.db.Get(dbKey(PageKey, pos), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d; %w", pos, err)
	}
	stored, err := w.db.Get(dbKey(DigestKey, pos), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read digest of page %d; %w", pos, err)
	}
	if digest := common.Keccak256(data); !bytes.Equal(stored, digest[:]) {
		return nil, fmt.Errorf("%w; page %d content does not match its digest", common.ErrInternal, pos)
	}
	return data, nil
}

func dbKey(space TableSpace, pos int32) []byte {
	var key [5]byte
	key[0] = byte(space)
	binary.BigEndian.PutUint32(key[1:], uint32(pos))
	return key[:]
}
