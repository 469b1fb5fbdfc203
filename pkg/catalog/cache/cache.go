// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/darijamt/colmap/internal/json"
	synclib "github.com/darijamt/colmap/internal/sync"
	loglib "github.com/darijamt/colmap/pkg/log"
	"github.com/darijamt/colmap/pkg/validator"
	"github.com/jonboulle/clockwork"
	"golang.org/x/exp/slices"
)

// Cache keeps the validation reports of dataset subsets, so that unchanged
// subsets are not validated again. Entries are kept in memory and, when a
// directory is configured, as json files in that directory.
type Cache struct {
	logger loglib.Logger
	clock  clockwork.Clock
	memory *synclib.Map[ID, *Entry]
	dir    string
	ttl    time.Duration
}

type Config struct {
	// Dir is the directory where entries are persisted. Entries are only kept
	// in memory when empty.
	Dir string
	// TTL is the maximum age of an entry. Entries never expire when zero.
	TTL time.Duration
	// Reset removes all the existing entries when the cache is created.
	Reset bool
}

// ID identifies the dataset subset, and optionally split, a report was
// computed for.
type ID struct {
	Dataset string `json:"dataset"`
	Subset  string `json:"subset"`
	Split   string `json:"split,omitempty"`
}

// Entry is a cached report, with the schema digest and the columns it was
// computed for.
type Entry struct {
	ID           ID                `json:"id"`
	SchemaDigest string            `json:"schema_digest"`
	Columns      []string          `json:"columns"`
	Report       *validator.Report `json:"report"`
	CreatedAt    time.Time         `json:"created_at"`
}

type Option func(*Cache)

const (
	fileExtension  = ".json"
	pathSeparator  = "/"
	escapedPathSep = "___"
)

func New(cfg *Config, opts ...Option) (*Cache, error) {
	c := &Cache{
		logger: loglib.NewNoopLogger(),
		clock:  clockwork.NewRealClock(),
		memory: synclib.NewMap[ID, *Entry](),
		dir:    cfg.Dir,
		ttl:    cfg.TTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	if cfg.Reset {
		if err := c.removeAll(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func WithLogger(logger loglib.Logger) Option {
	return func(c *Cache) {
		c.logger = loglib.NewLogger(logger).WithFields(loglib.Fields{
			loglib.ModuleField: "report_cache",
		})
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

func NewID(dataset, subset, split string) ID {
	return ID{
		Dataset: dataset,
		Subset:  subset,
		Split:   split,
	}
}

// Key returns the readable cache key of the dataset subset. The split is
// appended when set. Keys are ambiguous when names contain underscores, the
// ID is the actual identity of an entry.
func (id ID) Key() string {
	key := fmt.Sprintf("%s_%s", id.Dataset, id.Subset)
	if id.Split != "" {
		key = fmt.Sprintf("%s_%s", key, id.Split)
	}
	return key
}

// digest distinguishes the ids sharing the same key.
func (id ID) digest() string {
	sum := sha256.Sum256([]byte(id.Dataset + "\x00" + id.Subset + "\x00" + id.Split))
	return hex.EncodeToString(sum[:4])
}

// Get returns the cached report for the dataset subset, as long as it was
// computed with the same schema for the same set of columns and has not
// expired. Errors reading the disk entry are logged and reported as a miss.
func (c *Cache) Get(id ID, schemaDigest string, columns []string) (*validator.Report, bool) {
	key := id.Key()
	entry, found := c.memory.Get(id)
	if !found {
		var err error
		entry, err = c.readEntry(id)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				c.logger.Warn(err, "reading cache entry", loglib.Fields{"key": key})
			}
			return nil, false
		}
		c.memory.Set(id, entry)
	}

	if entry.ID != id {
		c.logger.Debug("cache entry belongs to another dataset subset", loglib.Fields{"key": key, "entry_key": entry.ID.Key()})
		return nil, false
	}

	if c.expired(entry) {
		c.logger.Debug("cache entry expired", loglib.Fields{"key": key, "created_at": entry.CreatedAt})
		c.delete(id)
		return nil, false
	}

	if entry.SchemaDigest != schemaDigest {
		c.logger.Debug("cache entry schema changed", loglib.Fields{"key": key})
		return nil, false
	}

	if !sameColumns(entry.Columns, columns) {
		c.logger.Debug("cache entry columns changed", loglib.Fields{"key": key})
		return nil, false
	}

	return entry.Report, true
}

// Set stores the report for the dataset subset and columns. Errors
// persisting the entry are logged, the entry is still kept in memory.
func (c *Cache) Set(id ID, schemaDigest string, columns []string, report *validator.Report) {
	entry := &Entry{
		ID:           id,
		SchemaDigest: schemaDigest,
		Columns:      sortedColumns(columns),
		Report:       report,
		CreatedAt:    c.clock.Now(),
	}
	c.memory.Set(id, entry)

	if err := c.writeEntry(entry); err != nil {
		c.logger.Warn(err, "writing cache entry", loglib.Fields{"key": id.Key()})
	}
}

// removeAll removes all the entries, from memory and disk.
func (c *Cache) removeAll() error {
	removed := c.memory.Clear()
	if c.dir == "" {
		c.logger.Info("cache reset", loglib.Fields{"removed_entries": removed})
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.dir, "*"+fileExtension))
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing cache entry: %w", err)
		}
	}
	c.logger.Info("cache reset", loglib.Fields{"removed_entries": len(files)})
	return nil
}

func (c *Cache) expired(entry *Entry) bool {
	return c.ttl > 0 && c.clock.Since(entry.CreatedAt) > c.ttl
}

func (c *Cache) delete(id ID) {
	c.memory.Delete(id)
	if c.dir == "" {
		return
	}
	if err := os.Remove(c.entryPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn(err, "removing expired cache entry", loglib.Fields{"key": id.Key()})
	}
}

func (c *Cache) readEntry(id ID) (*Entry, error) {
	if c.dir == "" {
		return nil, fs.ErrNotExist
	}

	data, err := os.ReadFile(c.entryPath(id))
	if err != nil {
		return nil, err
	}

	entry := &Entry{}
	if err := json.Unmarshal(data, entry); err != nil {
		return nil, fmt.Errorf("unmarshaling cache entry: %w", err)
	}
	if entry.Report == nil {
		return nil, fmt.Errorf("cache entry %s has no report", id.Key())
	}
	return entry, nil
}

func (c *Cache) writeEntry(entry *Entry) error {
	if c.dir == "" {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	// write to a temporary file first, concurrent readers never see a
	// partially written entry
	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.entryPath(entry.ID))
}

// entryPath returns the entry file, named after the escaped key and the id
// digest.
func (c *Cache) entryPath(id ID) string {
	name := strings.ReplaceAll(id.Key(), pathSeparator, escapedPathSep) + "-" + id.digest() + fileExtension
	return filepath.Join(c.dir, name)
}

func sortedColumns(columns []string) []string {
	sorted := slices.Clone(columns)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

func sameColumns(a, b []string) bool {
	return slices.Equal(sortedColumns(a), sortedColumns(b))
}
