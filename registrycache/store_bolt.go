// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registrycache

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/depgraph/pubgrub"
	"github.com/depgraph/pubgrub/internal/semverset"
)

// boltStore durably persists each package's version list, guarded against
// concurrent processes by an flock lockfile - the way the teacher's
// internal/gps/source_cache_bolt.go backs its own source cache with a single
// top-level bucket per source.
type boltStore struct {
	db   *bolt.DB
	lock *processLock
}

var bucketVersions = []byte("versions")

func openBoltStore(dir string) (*boltStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create registry cache directory %q", dir)
	}

	lock := newProcessLock(filepath.Join(dir, "registrycache.lock"))
	if err := lock.Lock(); err != nil {
		return nil, errors.Wrap(err, "failed to acquire registry cache lock")
	}

	path := filepath.Join(dir, "registrycache.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		lock.Unlock()
		return nil, errors.Wrapf(err, "failed to open BoltDB cache file %q", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVersions)
		return err
	})
	if err != nil {
		db.Close()
		lock.Unlock()
		return nil, errors.Wrap(err, "failed to initialize registry cache buckets")
	}

	return &boltStore{db: db, lock: lock}, nil
}

func (s *boltStore) close() error {
	err := s.db.Close()
	s.lock.Unlock()
	return errors.Wrap(err, "error closing registry cache database")
}

// save persists c's version list, one newline-separated string per version,
// keyed by the package name in the versions bucket.
func (s *boltStore) save(pkg pubgrub.PackageRef, c *container) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVersions)
		var buf bytes.Buffer
		for _, v := range c.versions {
			buf.WriteString(v.String())
			buf.WriteByte('\n')
		}
		return b.Put([]byte(pkg.String()), buf.Bytes())
	})
}

// load rehydrates a package's version list from the durable store. Returned
// containers carry no upstream reference; the caller must set one before use.
func (s *boltStore) load(pkg pubgrub.PackageRef) (*container, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVersions)
		v := b.Get([]byte(pkg.String()))
		if v == nil {
			return errors.Errorf("no cached entry for %s", pkg)
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	lines := bytes.Split(bytes.TrimRight(raw, "\n"), []byte("\n"))
	versions := make([]pubgrub.Version, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		v, err := semverset.ParseVersion(string(line))
		if err != nil {
			return nil, errors.Wrapf(err, "corrupt cached version for %s", pkg)
		}
		versions = append(versions, v)
	}

	return &container{pkg: pkg, versions: versions}, nil
}
