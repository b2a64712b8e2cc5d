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

import "encoding/binary"

// blockOffsetSize and blockFooterSize are both u32, per §4.8's wire layout.
const (
	blockOffsetSize = 4
	blockFooterSize = 4
)

// Block is a size-bounded, sorted run of key/value entries (§4.8). Layout
// written by WriteTo (all integers big-endian):
//
//	for each entry in insertion order:
//	    key_len (u16) || key_bytes
//	    val_len (u32) || value_bytes
//	then for each entry:
//	    offset_of_entry (u32)   // absolute offset within the block's data section
//	then:
//	    entries_count (u32)     // footer
//
// Keys must be added in non-decreasing order by caller contract; Block does
// not sort them itself.
type Block struct {
	maxSize int
	buf     []byte
	offsets []uint32
	minKey  Key
	maxKey  Key
}

// NewBlock allocates an empty block budgeted to maxSize bytes (the on-disk
// encoding, data plus offset table plus footer, must not exceed it once
// closed — except for a first entry that alone exceeds the budget, which is
// always accepted).
func NewBlock(maxSize int) *Block {
	return &Block{maxSize: maxSize}
}

// Add appends key/value if the block has room, reporting whether it was
// written. The first Add on a fresh block always succeeds.
func (b *Block) Add(key Key, value Value) bool {
	entrySize := 2 + len(key) + 4 + len(value)
	projectedSize := len(b.buf) + entrySize + (len(b.offsets)+1)*blockOffsetSize + blockFooterSize
	if len(b.offsets) > 0 && projectedSize > b.maxSize {
		return false
	}

	b.offsets = append(b.offsets, uint32(len(b.buf)))

	var klen [2]byte
	binary.BigEndian.PutUint16(klen[:], uint16(len(key)))
	b.buf = append(b.buf, klen[:]...)
	b.buf = append(b.buf, key...)

	var vlen [4]byte
	binary.BigEndian.PutUint32(vlen[:], uint32(len(value)))
	b.buf = append(b.buf, vlen[:]...)
	b.buf = append(b.buf, value...)

	if len(b.offsets) == 1 {
		b.minKey = key.Clone()
	}
	b.maxKey = key.Clone()
	return true
}

// KeyRange reports the block's min and max key inserted so far.
func (b *Block) KeyRange() (min, max Key) {
	return b.minKey, b.maxKey
}

// Len reports the number of entries written to the block.
func (b *Block) Len() int {
	return len(b.offsets)
}

// WriteTo appends the block's wire encoding (data, offset table, footer) to
// out.
func (b *Block) WriteTo(out *[]byte) {
	*out = append(*out, b.buf...)
	for _, off := range b.offsets {
		var ob [blockOffsetSize]byte
		binary.BigEndian.PutUint32(ob[:], off)
		*out = append(*out, ob[:]...)
	}
	var cb [blockFooterSize]byte
	binary.BigEndian.PutUint32(cb[:], uint32(len(b.offsets)))
	*out = append(*out, cb[:]...)
}

// BlockFromBuffer decodes a block previously written by WriteTo.
func BlockFromBuffer(buf []byte) *Block {
	if len(buf) < blockFooterSize {
		panic("lsm: buffer too short to read block footer")
	}

	count := binary.BigEndian.Uint32(buf[len(buf)-blockFooterSize:])
	dataEnd := len(buf) - int(count)*blockOffsetSize - blockFooterSize

	offsets := make([]uint32, count)
	for i := 0; i < int(count); i++ {
		start := dataEnd + i*blockOffsetSize
		offsets[i] = binary.BigEndian.Uint32(buf[start : start+blockOffsetSize])
	}

	data := make([]byte, dataEnd)
	copy(data, buf[:dataEnd])

	blk := &Block{buf: data, offsets: offsets}
	if count > 0 {
		blk.minKey = blk.FetchKeyOf(0)
		blk.maxKey = blk.FetchKeyOf(int(count) - 1)
	}
	return blk
}

// FetchKeyOf returns the key stored at entry idx.
func (b *Block) FetchKeyOf(idx int) Key {
	off := b.offsets[idx]
	keyLen := binary.BigEndian.Uint16(b.buf[off : off+2])
	return Key(b.buf[off+2 : uint32(off)+2+uint32(keyLen)])
}

// EntryAt returns the key and value stored at entry idx.
func (b *Block) EntryAt(idx int) (Key, Value) {
	off := b.offsets[idx]
	keyLen := uint32(binary.BigEndian.Uint16(b.buf[off : off+2]))
	pos := uint32(off) + 2 + keyLen
	key := Key(b.buf[uint32(off)+2 : pos])
	valLen := binary.BigEndian.Uint32(b.buf[pos : pos+4])
	pos += 4
	value := Value(b.buf[pos : pos+valLen])
	return key, value
}

// FindKeyIdx binary searches for the first key >= key; an exact match yields
// that index (§4.8).
func (b *Block) FindKeyIdx(key Key) int {
	lo, hi := 0, len(b.offsets)
	cursor := lo
	for lo < hi {
		mid := (lo + hi) / 2
		midKey := b.FetchKeyOf(mid)
		switch {
		case key.Less(midKey):
			hi = mid
		case midKey.Less(key):
			lo = mid + 1
			cursor = lo
		default:
			return mid
		}
	}
	return cursor
}

// Get looks up key within this block, returning false if absent.
func (b *Block) Get(key Key) (Value, bool) {
	idx := b.FindKeyIdx(key)
	if idx >= len(b.offsets) {
		return nil, false
	}
	foundKey, value := b.EntryAt(idx)
	if !foundKey.Equal(key) {
		return nil, false
	}
	return value, true
}
