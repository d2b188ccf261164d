package resultset

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Store is the graph of records, keyed by dataset bucket then record URI.
//
// A Store is owned by one request and is not safe for concurrent use.
type Store struct {
	datasets *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, *Record]]
	prefixes *PrefixRegistry
}

// NewStore returns an empty store using the core prefix registry.
func NewStore() *Store {
	return NewStoreWithPrefixes(NewPrefixRegistry())
}

// NewStoreWithPrefixes returns an empty store using prefixes.
func NewStoreWithPrefixes(prefixes *PrefixRegistry) *Store {
	if prefixes == nil {
		prefixes = NewPrefixRegistry()
	}
	return &Store{
		datasets: orderedmap.New[string, *orderedmap.OrderedMap[string, *Record]](),
		prefixes: prefixes,
	}
}

// Prefixes returns the registry of the last import, or the one the store was
// created with. Encoders clone it before assigning synthetic prefixes.
func (s *Store) Prefixes() *PrefixRegistry { return s.prefixes }

// Add stores rec in its dataset bucket. It reports false and leaves the store
// unchanged when a record with the same URI already exists in that bucket.
func (s *Store) Add(rec *Record) bool {
	if rec == nil {
		return false
	}
	dataset := rec.Dataset()
	bucket, ok := s.datasets.Get(dataset)
	if !ok {
		bucket = orderedmap.New[string, *Record]()
		s.datasets.Set(dataset, bucket)
	}
	if _, exists := bucket.Get(rec.URI); exists {
		return false
	}
	bucket.Set(rec.URI, rec)
	return true
}

// Merge adds every record of other, first writer wins, and registers other's
// non-conflicting prefixes. It returns the number of records added.
func (s *Store) Merge(other *Store) int {
	if other == nil {
		return 0
	}
	for _, ns := range other.prefixes.Namespaces() {
		s.prefixes.Register(ns.Prefix, ns.URI)
	}
	added := 0
	for _, rec := range other.Records() {
		if s.Add(rec) {
			added++
		}
	}
	return added
}

// Record returns the first record with uri in any dataset.
func (s *Store) Record(uri string) (*Record, bool) {
	for pair := s.datasets.Oldest(); pair != nil; pair = pair.Next() {
		if rec, ok := pair.Value.Get(uri); ok {
			return rec, true
		}
	}
	return nil, false
}

// RecordIn returns the record with uri in dataset.
func (s *Store) RecordIn(dataset, uri string) (*Record, bool) {
	bucket, ok := s.datasets.Get(dataset)
	if !ok {
		return nil, false
	}
	return bucket.Get(uri)
}

// RecordsByType returns the records having the given type, which may be a
// CURIE or an absolute URI.
func (s *Store) RecordsByType(typ string) []*Record {
	typeURI := s.prefixes.Expand(typ)
	var out []*Record
	for _, rec := range s.Records() {
		if rec.HasType(typeURI) {
			out = append(out, rec)
		}
	}
	return out
}

// Datasets returns the dataset keys in insertion order.
func (s *Store) Datasets() []string {
	out := make([]string, 0, s.datasets.Len())
	for pair := s.datasets.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// DatasetRecords returns the records of one dataset in insertion order.
func (s *Store) DatasetRecords(dataset string) []*Record {
	bucket, ok := s.datasets.Get(dataset)
	if !ok {
		return nil
	}
	out := make([]*Record, 0, bucket.Len())
	for pair := bucket.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Records returns every record, dataset by dataset, in insertion order.
func (s *Store) Records() []*Record {
	var out []*Record
	for pair := s.datasets.Oldest(); pair != nil; pair = pair.Next() {
		for rec := pair.Value.Oldest(); rec != nil; rec = rec.Next() {
			out = append(out, rec.Value)
		}
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	n := 0
	for pair := s.datasets.Oldest(); pair != nil; pair = pair.Next() {
		n += pair.Value.Len()
	}
	return n
}

// Equal reports whether both stores hold equal records in the same buckets.
// Prefix bindings are not compared.
func (s *Store) Equal(o *Store) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Len() != o.Len() {
		return false
	}
	for pair := s.datasets.Oldest(); pair != nil; pair = pair.Next() {
		for rec := pair.Value.Oldest(); rec != nil; rec = rec.Next() {
			other, ok := o.RecordIn(pair.Key, rec.Key)
			if !ok || !rec.Value.Equal(other) {
				return false
			}
		}
	}
	return true
}
