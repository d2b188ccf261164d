// Package recordstore persists records in BadgerDB, bucketed by dataset the
// same way resultset.Store groups them in memory. Each record is stored as
// a one-subject compact XML document, so anything written can be read back
// by any service that speaks the pipeline format.
package recordstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/geoknoesis/structwsf/resultset"
)

// Key layout:
//
//	rec:<dataset>\x00<uri>  compact XML of the record
//	uri:<uri>\x00<dataset>  empty, lookup by uri
//	ds:<dataset>            empty, dataset listing
const (
	recPrefix = "rec:"
	uriPrefix = "uri:"
	dsPrefix  = "ds:"
	sep       = "\x00"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("recordstore: record not found")

// DB is a persistent record store. It is safe for concurrent use.
type DB struct {
	db     *badger.DB
	logger *slog.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *DB) {
		d.logger = logger
	}
}

// Open opens or creates the store in dir.
func Open(dir string, opts ...Option) (*DB, error) {
	return open(badger.DefaultOptions(dir).WithLogger(nil), opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory(opts ...Option) (*DB, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil), opts)
}

func open(bopts badger.Options, opts []Option) (*DB, error) {
	bdb, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("recordstore: open: %w", err)
	}
	d := &DB{db: bdb, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Put writes every record of store. A record whose URI already exists in
// its dataset is left untouched: the first writer wins. Put returns the
// number of records written.
func (d *DB) Put(ctx context.Context, store *resultset.Store) (int, error) {
	written := 0
	for _, rec := range store.Records() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		dataset := rec.Dataset()
		data, err := encodeRecord(ctx, store.Prefixes(), rec)
		if err != nil {
			return written, err
		}

		key := recKey(dataset, rec.URI)
		added := false
		err = d.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(key)
			if err == nil {
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set(key, data); err != nil {
				return err
			}
			if err := txn.Set([]byte(uriPrefix+rec.URI+sep+dataset), nil); err != nil {
				return err
			}
			added = true
			return txn.Set([]byte(dsPrefix+dataset), nil)
		})
		if err != nil {
			return written, fmt.Errorf("recordstore: put %s: %w", rec.URI, err)
		}
		if added {
			written++
		} else {
			d.logger.Debug("record already stored", "subject", rec.URI, "dataset", dataset)
		}
	}
	return written, nil
}

// Get returns the record with uri from the first dataset holding it.
func (d *DB) Get(ctx context.Context, uri string) (*resultset.Record, error) {
	var data []byte
	err := d.db.View(func(txn *badger.Txn) error {
		prefix := []byte(uriPrefix + uri + sep)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		it.Seek(prefix)
		if !it.ValidForPrefix(prefix) {
			return ErrNotFound
		}
		dataset := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
		item, err := txn.Get(recKey(dataset, uri))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	store, err := decodeRecords(ctx, data)
	if err != nil {
		return nil, err
	}
	rec, ok := store.Record(uri)
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Dataset loads every record of dataset into a new store.
func (d *DB) Dataset(ctx context.Context, dataset string) (*resultset.Store, error) {
	out := resultset.NewStore()
	prefix := []byte(recPrefix + dataset + sep)
	var docs [][]byte
	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			docs = append(docs, data)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recordstore: dataset %s: %w", dataset, err)
	}
	for _, data := range docs {
		store, err := decodeRecords(ctx, data)
		if err != nil {
			return nil, err
		}
		out.Merge(store)
	}
	return out, nil
}

// Datasets lists the stored dataset keys in key order.
func (d *DB) Datasets(ctx context.Context) ([]string, error) {
	var out []string
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(dsPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			out = append(out, strings.TrimPrefix(string(it.Item().Key()), dsPrefix))
		}
		return nil
	})
	return out, err
}

func recKey(dataset, uri string) []byte {
	return []byte(recPrefix + dataset + sep + uri)
}

func encodeRecord(ctx context.Context, prefixes *resultset.PrefixRegistry, rec *resultset.Record) ([]byte, error) {
	single := resultset.NewStoreWithPrefixes(prefixes)
	single.Add(rec)
	data, _, err := resultset.EncodeToBytes(ctx, single, resultset.FormatXML)
	if err != nil {
		return nil, fmt.Errorf("recordstore: encode %s: %w", rec.URI, err)
	}
	return data, nil
}

func decodeRecords(ctx context.Context, data []byte) (*resultset.Store, error) {
	store, _, err := resultset.Decode(ctx, bytes.NewReader(data), resultset.FormatXML)
	if err != nil {
		return nil, fmt.Errorf("recordstore: stored record: %w", err)
	}
	return store, nil
}
