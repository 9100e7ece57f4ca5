package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// An entry file is a fixed header followed by the raw value:
//
//	magic[4] | expires unix nanos, big endian int64 (0 = never) | data
var entryMagic = [4]byte{'j', 'g', 'c', 1}

const (
	entryHeaderLen = len(entryMagic) + 8
	entryExt       = ".entry"
	tmpPrefix      = ".tmp-"

	// tmpGrace is how old a temp file must be before a sweep treats it as
	// left behind by an interrupted Set.
	tmpGrace = 10 * time.Minute
)

// FileCache keeps entries as files under dir, sharded by the first two hex
// digits of the key hash. It is the CLI's default backend.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates dir if needed and returns a cache rooted there.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// DefaultDir returns $XDG_CACHE_HOME/justgrid, falling back to
// ~/.cache/justgrid.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "justgrid"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "justgrid"), nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// Get implements Cache. Corrupt and expired entries count as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, ok := decodeEntry(raw)
	if !ok || c.expired(expires) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set implements Cache. A non-positive ttl never expires.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return err
	}

	// Write then rename so readers never see a partial entry.
	tmp, err := os.CreateTemp(shard, tmpPrefix+"*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(encodeEntry(data, expires)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete implements Cache.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (c *FileCache) Clear() (int, error) {
	return c.sweep(func(string) bool { return true })
}

// Prune removes expired and unreadable entries and returns how many were
// deleted. Live entries are kept.
func (c *FileCache) Prune() (int, error) {
	return c.sweep(func(path string) bool {
		raw, err := os.ReadFile(path)
		if err != nil {
			return true
		}
		_, expires, ok := decodeEntry(raw)
		return !ok || c.expired(expires)
	})
}

// Close implements Cache. It holds no resources.
func (c *FileCache) Close() error { return nil }

// sweep walks the shards and removes the entry files drop selects. Temp
// files older than tmpGrace are removed too but not counted. Shards left
// empty are removed as well.
func (c *FileCache) sweep(drop func(path string) bool) (int, error) {
	shards, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	n := 0
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		shardDir := filepath.Join(c.dir, shard.Name())
		entries, err := os.ReadDir(shardDir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			path := filepath.Join(shardDir, e.Name())
			switch {
			case strings.HasSuffix(e.Name(), entryExt):
				if drop(path) && os.Remove(path) == nil {
					n++
				}
			case strings.HasPrefix(e.Name(), tmpPrefix):
				if c.abandoned(e) {
					_ = os.Remove(path)
				}
			}
		}
		_ = os.Remove(shardDir) // fails unless empty
	}
	return n, nil
}

func (c *FileCache) abandoned(e fs.DirEntry) bool {
	info, err := e.Info()
	return err == nil && c.now().Sub(info.ModTime()) > tmpGrace
}

func (c *FileCache) expired(expires time.Time) bool {
	return !expires.IsZero() && c.now().After(expires)
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(data []byte, expires time.Time) []byte {
	buf := make([]byte, entryHeaderLen, entryHeaderLen+len(data))
	copy(buf, entryMagic[:])
	var nanos int64
	if !expires.IsZero() {
		nanos = expires.UnixNano()
	}
	binary.BigEndian.PutUint64(buf[len(entryMagic):], uint64(nanos))
	return append(buf, data...)
}

func decodeEntry(raw []byte) (data []byte, expires time.Time, ok bool) {
	if len(raw) < entryHeaderLen || !bytes.Equal(raw[:len(entryMagic)], entryMagic[:]) {
		return nil, time.Time{}, false
	}
	if nanos := int64(binary.BigEndian.Uint64(raw[len(entryMagic):entryHeaderLen])); nanos != 0 {
		expires = time.Unix(0, nanos)
	}
	return raw[entryHeaderLen:], expires, true
}

var _ Cache = (*FileCache)(nil)
