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
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTestBlock(t *testing.T, pairs [][2]string) *Block {
	t.Helper()
	b := NewBlock(4096)
	for _, p := range pairs {
		require.True(t, b.Add(Key(p[0]), Value(p[1])))
	}
	return b
}

func TestBlockFromBuffer(t *testing.T) {
	buf := []byte{
		0, 3, 'k', 'e', 'y', // key
		0, 0, 0, 5, 'v', 'a', 'l', 'u', 'e', // value
		0, 4, 'k', 'e', 'y', '2', // key2
		0, 0, 0, 6, 'v', 'a', 'l', 'u', 'e', '2', // value2
		0, 5, 'k', 'e', 'y', '1', '0', // key10
		0, 0, 0, 7, 'v', 'a', 'l', 'u', 'e', '2', '0', // value20
		0, 0, 0, 0, // offset for key
		0, 0, 0, 14, // offset for key2
		0, 0, 0, 30, // offset for key10
		0, 0, 0, 3, // footer, entries_count
	}

	blk := BlockFromBuffer(buf)
	require.Len(t, blk.buf, 48)
	require.Equal(t, []uint32{0, 14, 30}, blk.offsets)
}

func TestBlockFindKeyIdx(t *testing.T) {
	blk := buildTestBlock(t, [][2]string{
		{"1", "value1"},
		{"11", "value11"},
		{"13", "value13"},
		{"15", "value15"},
		{"17", "value17"},
		{"3", "value3"},
		{"5", "value5"},
		{"7", "value7"},
		{"9", "value9"},
	})

	require.Equal(t, 5, blk.FindKeyIdx(Key("3")))
	require.Equal(t, 4, blk.FindKeyIdx(Key("16")))
	require.Equal(t, 1, blk.FindKeyIdx(Key("11")))
	require.Equal(t, 7, blk.FindKeyIdx(Key("7")))
}

func TestBlockAddRejectsOverBudget(t *testing.T) {
	b := NewBlock(20)
	require.True(t, b.Add(Key("key"), Value("value")))
	require.False(t, b.Add(Key("key2"), Value("value2")))
}

func TestBlockAddFirstEntryAlwaysSucceeds(t *testing.T) {
	b := NewBlock(4)
	require.True(t, b.Add(Key("a-much-longer-key-than-the-budget"), Value("value")))
}

func TestBlockRoundTrip(t *testing.T) {
	b := NewBlock(4096)
	require.True(t, b.Add(Key("alpha"), Value("1")))
	require.True(t, b.Add(Key("beta"), Value("2")))

	var out []byte
	b.WriteTo(&out)

	decoded := BlockFromBuffer(out)
	v, ok := decoded.Get(Key("beta"))
	require.True(t, ok)
	require.Equal(t, Value("2"), v)

	_, ok = decoded.Get(Key("missing"))
	require.False(t, ok)
}
