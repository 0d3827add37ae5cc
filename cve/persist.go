// Copyright 2025 The verihosts Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cve

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// indexFileName is the persisted index's filename inside the feed
// directory, replacing the original tool's opaque pickle cache.
const indexFileName = "nvd_index.bolt"

// schemaVersion is bumped whenever the on-disk encoding of Entry or the
// bucket key layout changes. OpenCached refuses to reuse a file stamped
// with a different version instead of silently misreading it.
const schemaVersion = 1

var metaBucket = []byte("meta")
var dataBucket = []byte("entries")
var schemaKey = []byte("schema_version")

// OpenCached loads a previously persisted Index from dir if one exists,
// was built with the current schemaVersion, and forceRebuild is false. It
// reports ok=false when no usable cache is present, in which case the
// caller should run Build and then Save.
func OpenCached(dir string, forceRebuild bool) (idx *Index, ok bool) {
	path := filepath.Join(dir, indexFileName)
	if forceRebuild {
		os.Remove(path)
		return nil, false
	}
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}

	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: 2 * time.Second, ReadOnly: true})
	if err != nil {
		return nil, false
	}
	defer db.Close()

	loaded := &Index{buckets: make(map[key][]Entry)}
	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		if meta == nil {
			return fmt.Errorf("missing meta bucket")
		}
		if string(meta.Get(schemaKey)) != fmt.Sprint(schemaVersion) {
			return fmt.Errorf("schema version mismatch")
		}
		data := tx.Bucket(dataBucket)
		if data == nil {
			return fmt.Errorf("missing data bucket")
		}
		return data.ForEach(func(k, v []byte) error {
			bk, err := decodeKey(k)
			if err != nil {
				return err
			}
			var entries []Entry
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&entries); err != nil {
				return err
			}
			loaded.buckets[bk] = entries
			return nil
		})
	})
	if err != nil {
		return nil, false
	}
	return loaded, true
}

// Save persists idx to dir, replacing any previous cache file.
func (idx *Index) Save(dir string) error {
	path := filepath.Join(dir, indexFileName)
	os.Remove(path)

	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return fmt.Errorf("cve: opening cache file: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return err
		}
		if err := meta.Put(schemaKey, []byte(fmt.Sprint(schemaVersion))); err != nil {
			return err
		}

		data, err := tx.CreateBucketIfNotExists(dataBucket)
		if err != nil {
			return err
		}
		for k, entries := range idx.buckets {
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
				return err
			}
			if err := data.Put(encodeKey(k), buf.Bytes()); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeKey(k key) []byte {
	return []byte(k.vendor + "\x00" + k.product)
}

func decodeKey(b []byte) (key, error) {
	for i := 0; i < len(b); i++ {
		if b[i] == 0 {
			return key{vendor: string(b[:i]), product: string(b[i+1:])}, nil
		}
	}
	return key{}, fmt.Errorf("cve: malformed index key %q", b)
}
