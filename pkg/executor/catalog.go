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

package executor

import (
	"sync"

	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Catalog is the executor's own in-memory row store: §9's Open Questions
// note that the storage engine (pkg/lsm) is never wired into the executor
// in the original sketch, which instead "operates on in-memory arrays via
// EvalScan". Catalog is that in-memory array store for plain Scan sources —
// a namespaced collection name maps to a mutable slice of row objects.
type Catalog struct {
	mu          sync.RWMutex
	collections map[string][]*value.Object
}

// NewCatalog allocates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{collections: make(map[string][]*value.Object)}
}

func qualify(c ast.SqlCollectionIdentifier) string {
	if c.Namespace != "" {
		return c.Namespace + "." + c.Name
	}
	return c.Name
}

// Rows returns a snapshot slice of a collection's rows, or nil if it has
// never been created.
func (c *Catalog) Rows(coll ast.SqlCollectionIdentifier) []*value.Object {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rows := c.collections[qualify(coll)]
	out := make([]*value.Object, len(rows))
	copy(out, rows)
	return out
}

// Insert appends row to coll, creating it on first use.
func (c *Catalog) Insert(coll ast.SqlCollectionIdentifier, row *value.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := qualify(coll)
	c.collections[key] = append(c.collections[key], row)
}

// Update applies apply to every row of coll for which match returns true,
// returning the number of rows touched.
func (c *Catalog) Update(coll ast.SqlCollectionIdentifier, match func(*value.Object) bool, apply func(*value.Object)) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, row := range c.collections[qualify(coll)] {
		if match(row) {
			apply(row)
			n++
		}
	}
	return n
}

// Delete removes every row of coll for which match returns true, returning
// the number of rows removed.
func (c *Catalog) Delete(coll ast.SqlCollectionIdentifier, match func(*value.Object) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := qualify(coll)
	kept := c.collections[key][:0]
	removed := 0
	for _, row := range c.collections[key] {
		if match(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	c.collections[key] = kept
	return removed
}
