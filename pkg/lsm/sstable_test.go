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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSSTableWriterExactBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table")
	w := NewSSTableWriter(path, 64)

	w.Add(Key("key"), Value("value"))
	w.Add(Key("key2"), Value("value2"))
	w.Add(Key("key10"), Value("value20"))

	require.NoError(t, w.Write())

	sst, err := OpenSSTable(path)
	require.NoError(t, err)
	defer sst.Close()

	min, max := sst.KeyRange()
	require.Equal(t, Key("key"), min)
	require.Equal(t, Key("key10"), max)
	require.Len(t, sst.BlockSummaries(), 1)
}

func TestSSTableOpenRoundTripWithMultipleBlocks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table")
	w := NewSSTableWriter(path, 64)

	for i := 1; i <= 9; i++ {
		k := Key([]byte{'k', 'e', 'y', byte('0' + i)})
		v := Value([]byte{'v', 'a', 'l', 'u', 'e', byte('0' + i)})
		w.Add(k, v)
	}
	require.NoError(t, w.Write())

	sst, err := OpenSSTable(path)
	require.NoError(t, err)
	defer sst.Close()

	require.Len(t, sst.BlockSummaries(), 3)

	v, ok, err := sst.Get(Key("key5"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Value("value5"), v)

	_, ok, err = sst.Get(Key("missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSSTableReadBlockPositional(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table")
	w := NewSSTableWriter(path, 4096)
	w.Add(Key("a"), Value("1"))
	w.Add(Key("b"), Value("2"))
	require.NoError(t, w.Write())

	sst, err := OpenSSTable(path)
	require.NoError(t, err)
	defer sst.Close()

	blk, err := sst.ReadBlock(0)
	require.NoError(t, err)
	require.Equal(t, 2, blk.Len())
}
