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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemtableGetAbsent(t *testing.T) {
	m := NewMemtable()
	_, ok := m.Get(Key("key"))
	require.False(t, ok)
}

func TestMemtablePutThenGet(t *testing.T) {
	m := NewMemtable()
	m.Put(Key("key"), Value("value"))
	v, ok := m.Get(Key("key"))
	require.True(t, ok)
	require.Equal(t, Value("value"), v)
}

func TestMemtablePutOverwrites(t *testing.T) {
	m := NewMemtable()
	m.Put(Key("key"), Value("value"))
	m.Put(Key("key"), Value("value2"))
	v, ok := m.Get(Key("key"))
	require.True(t, ok)
	require.Equal(t, Value("value2"), v)
}

func TestMemtableKeepsSortedOrder(t *testing.T) {
	m := NewMemtable()
	for _, k := range []string{"c", "a", "e", "b", "d"} {
		m.Put(Key(k), Value(k))
	}
	require.Len(t, m.entries, 5)
	for i := 1; i < len(m.entries); i++ {
		require.True(t, m.entries[i-1].key.Less(m.entries[i].key))
	}
}

func TestMemtableConcurrentAccess(t *testing.T) {
	m := NewMemtable()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := Key([]byte{byte('a' + i%26)})
			m.Put(k, Value("v"))
			m.Get(k)
		}(i)
	}
	wg.Wait()
}

func TestMemtableFlushToSSTable(t *testing.T) {
	m := NewMemtable()
	m.Put(Key("b"), Value("2"))
	m.Put(Key("a"), Value("1"))
	m.Put(Key("c"), Value("3"))
	require.Positive(t, m.ApproximateSize())

	dir := t.TempDir()
	w := NewSSTableWriter(filepath.Join(dir, "flushed"), 4096)
	require.NoError(t, m.Flush(w))

	sst, err := OpenSSTable(filepath.Join(dir, "flushed"))
	require.NoError(t, err)
	defer sst.Close()

	v, ok, err := sst.Get(Key("b"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Value("2"), v)
}
