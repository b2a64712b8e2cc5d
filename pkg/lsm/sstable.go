// Copyright 2024 The LykiaDB Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lsm

import (
	"encoding/binary"
	"fmt"
	"os"
)

// BlockSummary records where a flushed block begins in an SSTable file and
// the min/max key it covers (§4.9).
type BlockSummary struct {
	Offset uint32
	MinKey Key
	MaxKey Key
}

func writeBlockSummary(buf *[]byte, s BlockSummary) {
	var ob [4]byte
	binary.BigEndian.PutUint32(ob[:], s.Offset)
	*buf = append(*buf, ob[:]...)
	writeLenPrefixedKey(buf, s.MinKey)
	writeLenPrefixedKey(buf, s.MaxKey)
}

func writeLenPrefixedKey(buf *[]byte, k Key) {
	var lb [2]byte
	binary.BigEndian.PutUint16(lb[:], uint16(len(k)))
	*buf = append(*buf, lb[:]...)
	*buf = append(*buf, k...)
}

// readBlockSummaries decodes count summaries from the start of buf.
func readBlockSummaries(buf []byte, count int) []BlockSummary {
	out := make([]BlockSummary, 0, count)
	pos := 0
	for i := 0; i < count; i++ {
		offset := binary.BigEndian.Uint32(buf[pos : pos+4])
		pos += 4

		minLen := int(binary.BigEndian.Uint16(buf[pos : pos+2]))
		pos += 2
		min := Key(append([]byte(nil), buf[pos:pos+minLen]...))
		pos += minLen

		maxLen := int(binary.BigEndian.Uint16(buf[pos : pos+2]))
		pos += 2
		max := Key(append([]byte(nil), buf[pos:pos+maxLen]...))
		pos += maxLen

		out = append(out, BlockSummary{Offset: offset, MinKey: min, MaxKey: max})
	}
	return out
}

// SSTableWriter accumulates key/value pairs into size-bounded blocks and
// persists a finished file in one shot on Write (§4.9). Keys must be added in
// non-decreasing order, the same contract Block.Add relies on.
type SSTableWriter struct {
	filePath     string
	maxBlockSize int
	buf          []byte
	summaries    []BlockSummary
	current      *Block
}

// NewSSTableWriter opens a writer targeting filePath, closing each block once
// it reaches maxBlockSize bytes.
func NewSSTableWriter(filePath string, maxBlockSize int) *SSTableWriter {
	return &SSTableWriter{
		filePath:     filePath,
		maxBlockSize: maxBlockSize,
		current:      NewBlock(maxBlockSize),
	}
}

func (w *SSTableWriter) finalizeBlock() {
	min, max := w.current.KeyRange()
	offset := uint32(len(w.buf))
	w.current.WriteTo(&w.buf)
	w.summaries = append(w.summaries, BlockSummary{Offset: offset, MinKey: min, MaxKey: max})
}

// Add delegates to the current block; when the block refuses the entry, the
// current block is finalized and a fresh one opened and retried (§4.9).
func (w *SSTableWriter) Add(key Key, value Value) {
	if !w.current.Add(key, value) {
		w.finalizeBlock()
		w.current = NewBlock(w.maxBlockSize)
		w.current.Add(key, value)
	}
}

// Write flushes the final block, appends the meta section (block count, then
// each block summary, then the meta offset as a trailing footer), and
// persists the whole buffer to disk (§4.9).
func (w *SSTableWriter) Write() error {
	if w.current.Len() > 0 {
		w.finalizeBlock()
	}

	metaOffset := uint32(len(w.buf))

	var cb [4]byte
	binary.BigEndian.PutUint32(cb[:], uint32(len(w.summaries)))
	w.buf = append(w.buf, cb[:]...)

	for _, s := range w.summaries {
		writeBlockSummary(&w.buf, s)
	}

	var mb [4]byte
	binary.BigEndian.PutUint32(mb[:], metaOffset)
	w.buf = append(w.buf, mb[:]...)

	return os.WriteFile(w.filePath, w.buf, 0o644)
}

// SSTable is a read-only handle over a file written by SSTableWriter. Blocks
// are read lazily via positional reads on one held file handle, never under a
// shared cursor (§5's resource-discipline note).
type SSTable struct {
	filePath   string
	file       *os.File
	metaOffset int64
	summaries  []BlockSummary
}

// OpenSSTable opens filePath and decodes its meta section.
func OpenSSTable(filePath string) (*SSTable, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size < 4 {
		f.Close()
		return nil, fmt.Errorf("lsm: %s too short to read table footer", filePath)
	}

	footer := make([]byte, 4)
	if _, err := f.ReadAt(footer, size-4); err != nil {
		f.Close()
		return nil, err
	}
	metaOffset := int64(binary.BigEndian.Uint32(footer))

	metaBuf := make([]byte, size-metaOffset-4)
	if _, err := f.ReadAt(metaBuf, metaOffset); err != nil {
		f.Close()
		return nil, err
	}

	count := int(binary.BigEndian.Uint32(metaBuf[:4]))
	summaries := readBlockSummaries(metaBuf[4:], count)

	return &SSTable{filePath: filePath, file: f, metaOffset: metaOffset, summaries: summaries}, nil
}

// Close releases the underlying file handle.
func (t *SSTable) Close() error {
	return t.file.Close()
}

// KeyRange reports the table's overall min/max key: the first summary's min
// through the last summary's max.
func (t *SSTable) KeyRange() (min, max Key) {
	if len(t.summaries) == 0 {
		return nil, nil
	}
	return t.summaries[0].MinKey, t.summaries[len(t.summaries)-1].MaxKey
}

// BlockSummaries returns a copy of the table's block summaries, in file order.
func (t *SSTable) BlockSummaries() []BlockSummary {
	out := make([]BlockSummary, len(t.summaries))
	copy(out, t.summaries)
	return out
}

func (t *SSTable) blockEnd(idx int) int64 {
	if idx+1 < len(t.summaries) {
		return int64(t.summaries[idx+1].Offset)
	}
	return t.metaOffset
}

// ReadBlock decodes the idx'th block via one positional read.
func (t *SSTable) ReadBlock(idx int) (*Block, error) {
	start := int64(t.summaries[idx].Offset)
	end := t.blockEnd(idx)

	buf := make([]byte, end-start)
	if _, err := t.file.ReadAt(buf, start); err != nil {
		return nil, err
	}
	return BlockFromBuffer(buf), nil
}

// Get looks up key, first narrowing to the one block whose key range could
// contain it, then binary-searching within that block.
func (t *SSTable) Get(key Key) (Value, bool, error) {
	idx := t.findBlockIdx(key)
	if idx < 0 {
		return nil, false, nil
	}
	blk, err := t.ReadBlock(idx)
	if err != nil {
		return nil, false, err
	}
	v, ok := blk.Get(key)
	return v, ok, nil
}

// findBlockIdx returns the index of the summary whose key range could contain
// key, or -1 if key falls outside every block's range.
func (t *SSTable) findBlockIdx(key Key) int {
	lo, hi := 0, len(t.summaries)
	for lo < hi {
		mid := (lo + hi) / 2
		if key.Less(t.summaries[mid].MinKey) {
			hi = mid
		} else if t.summaries[mid].MaxKey.Less(key) {
			lo = mid + 1
		} else {
			return mid
		}
	}
	if lo < len(t.summaries) && !key.Less(t.summaries[lo].MinKey) && !t.summaries[lo].MaxKey.Less(key) {
		return lo
	}
	return -1
}
