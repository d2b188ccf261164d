package resultset

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"log/slog"
	"time"
)

// LinkedTransformer turns a compact XML document into one of the delegated
// linked formats using a dataset's linkage schema. Implementations report a
// non-success status as an error.
type LinkedTransformer interface {
	Transform(ctx context.Context, document []byte, format Format) ([]byte, error)
}

// Option configures Encode and Decode.
type Option func(*Options)

// Options configures Encode and Decode.
type Options struct {
	// Logger receives debug records for skipped atoms and unknown prefixes.
	Logger *slog.Logger
	// Metrics is optional.
	Metrics *Metrics
	// Transformer produces the delegated linked formats.
	Transformer LinkedTransformer
	// Prefixes is the base registry used by Decode. Defaults to the core registry.
	Prefixes *PrefixRegistry
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithTransformer sets the linked-format transformer.
func WithTransformer(t LinkedTransformer) Option {
	return func(opts *Options) {
		opts.Transformer = t
	}
}

// WithPrefixes sets the base registry used when decoding.
func WithPrefixes(prefixes *PrefixRegistry) Option {
	return func(opts *Options) {
		opts.Prefixes = prefixes
	}
}

func buildOptions(opts []Option) Options {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	return options
}

// Encode serializes store to w in format. Problems confined to one record or
// statement are returned as warnings and do not fail the document; only I/O
// errors, unsupported formats and delegated transform failures are errors.
func Encode(ctx context.Context, w io.Writer, store *Store, format Format, opts ...Option) (Warnings, error) {
	options := buildOptions(opts)
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	pass := newEncodePass(store, format, options.Logger)

	var err error
	switch format {
	case FormatXML:
		err = encodeStructXML(pass, w, store)
	case FormatJSON:
		err = encodeStructJSON(pass, w, store)
	case FormatRDFXML:
		err = encodeRDFXML(pass, w, store)
	case FormatRDFN3:
		err = encodeN3(pass, w, store)
	case FormatNTriples:
		err = encodeNTriples(pass, w, store)
	case FormatJSONLD:
		err = encodeJSONLD(ctx, pass, w, store)
	case FormatIronJSON, FormatIronCSV:
		err = encodeDelegated(ctx, pass, w, store, options.Transformer)
	default:
		err = &Error{Code: ErrCodeUnsupportedFormat, Format: format, Err: ErrUnsupportedFormat}
	}
	options.Metrics.observeEncode(format, time.Since(start), pass.warnings, err)
	if err != nil {
		return pass.warnings, err
	}
	return pass.warnings, nil
}

// EncodeToBytes is Encode into a byte slice.
func EncodeToBytes(ctx context.Context, store *Store, format Format, opts ...Option) ([]byte, Warnings, error) {
	var buf bytes.Buffer
	warnings, err := Encode(ctx, &buf, store, format, opts...)
	if err != nil {
		return nil, warnings, err
	}
	return buf.Bytes(), warnings, nil
}

// Decode imports a compact XML or structured JSON document. A parse failure
// aborts the import and no store is returned.
func Decode(ctx context.Context, r io.Reader, format Format, opts ...Option) (*Store, Warnings, error) {
	options := buildOptions(opts)
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}
	base := options.Prefixes
	if base == nil {
		base = NewPrefixRegistry()
	}
	dec := &decodePass{
		format:   format,
		prefixes: base.Clone(),
		logger:   options.Logger,
	}

	var store *Store
	var err error
	switch format {
	case FormatXML:
		store, err = decodeStructXML(dec, r)
	case FormatJSON:
		store, err = decodeStructJSON(dec, r)
	default:
		err = &Error{Code: ErrCodeUnsupportedFormat, Format: format, Err: ErrUnsupportedFormat}
	}
	options.Metrics.observeDecode(format, store, dec.warnings, err)
	if err != nil {
		return nil, dec.warnings, err
	}
	return store, dec.warnings, nil
}

// ReificationID derives the identity of a reification block: the lowercase
// hex MD5 of subject, predicate and object concatenated without separator.
func ReificationID(subject, predicate, object string) string {
	sum := md5.Sum([]byte(subject + predicate + object))
	return hex.EncodeToString(sum[:])
}

func encodeDelegated(ctx context.Context, pass *encodePass, w io.Writer, store *Store, t LinkedTransformer) error {
	if t == nil {
		return &Error{Code: ErrCodeDelegatedTransform, Format: pass.format, Err: ErrNoTransformer}
	}
	var doc bytes.Buffer
	if err := encodeStructXML(pass, &doc, store); err != nil {
		return err
	}
	out, err := t.Transform(ctx, doc.Bytes(), pass.format)
	if err != nil {
		if Code(err) == ErrCodeDelegatedTransform {
			return err
		}
		return &Error{Code: ErrCodeDelegatedTransform, Format: pass.format, Err: err}
	}
	if _, err := w.Write(out); err != nil {
		return &Error{Code: ErrCodeIOError, Format: pass.format, Err: err}
	}
	return nil
}

// encodePass is the state of one serialization. It owns a clone of the
// store's registry so synthetic prefixes are scoped to the pass.
type encodePass struct {
	format   Format
	prefixes *PrefixRegistry
	used     map[string]bool
	warnings Warnings
	logger   *slog.Logger
}

func newEncodePass(store *Store, format Format, logger *slog.Logger) *encodePass {
	base := NewPrefixRegistry()
	if store != nil {
		base = store.Prefixes()
	}
	return &encodePass{
		format:   format,
		prefixes: base.Clone(),
		used:     map[string]bool{},
		logger:   logger,
	}
}

// compact returns the CURIE form of uri, or uri unchanged.
func (p *encodePass) compact(uri string) string {
	curie, prefix, ok := p.prefixes.compact(uri)
	if !ok {
		return uri
	}
	p.used[prefix] = true
	return curie
}

// qname is compact restricted to results usable as XML element names.
func (p *encodePass) qname(uri string) (string, bool) {
	_, local, ok := SplitURI(uri)
	if !ok || !isQNameLocal(local) {
		return "", false
	}
	curie, prefix, ok := p.prefixes.compact(uri)
	if !ok {
		return "", false
	}
	p.used[prefix] = true
	return curie, true
}

// touch marks the namespace of uri used when it is already registered.
func (p *encodePass) touch(uri string) {
	ns, _, ok := SplitURI(uri)
	if !ok {
		return
	}
	if prefix, ok := p.prefixes.Prefix(ns); ok {
		p.used[prefix] = true
	}
}

func (p *encodePass) usedNamespaces() []Namespace {
	var out []Namespace
	for _, ns := range p.prefixes.Namespaces() {
		if p.used[ns.Prefix] {
			out = append(out, ns)
		}
	}
	return out
}

func (p *encodePass) warn(code ErrorCode, subject, predicate, msg string) {
	p.warnings = append(p.warnings, Warning{Code: code, Subject: subject, Predicate: predicate, Message: msg})
	p.logger.Debug(msg, "code", string(code), "format", string(p.format), "subject", subject, "predicate", predicate)
}

// nonEmpty drops empty atoms, recording a warning for each.
func (p *encodePass) nonEmpty(subject, predicate string, values []Value) []Value {
	out := values[:0:0]
	for _, v := range values {
		if v == nil || v.Empty() {
			p.warn(ErrCodeEmptyAtomSkipped, subject, predicate, "empty value skipped")
			continue
		}
		out = append(out, v)
	}
	return out
}

// recordStatements flattens a record into the statements every format
// writes after the primary type: extra types, promoted fields, then the
// generic statements. Empty atoms are removed.
func (p *encodePass) recordStatements(rec *Record) []*Statement {
	var out []*Statement
	if len(rec.Types) > 1 {
		stmt := &Statement{Predicate: RDFType}
		for _, t := range rec.Types[1:] {
			stmt.Values = append(stmt.Values, Resource{URI: t})
		}
		out = append(out, stmt)
	}
	if rec.PrefLabel != "" {
		out = append(out, &Statement{Predicate: IronPrefLabel, Values: []Value{Literal{Value: rec.PrefLabel}}})
	}
	if alts := explicitAltLabels(rec); len(alts) > 0 {
		stmt := &Statement{Predicate: IronAltLabel}
		for _, label := range alts {
			stmt.Values = append(stmt.Values, Literal{Value: label})
		}
		out = append(out, stmt)
	}
	if rec.Description != "" {
		out = append(out, &Statement{Predicate: IronDescription, Values: []Value{Literal{Value: rec.Description}}})
	}
	if rec.PrefURL != "" {
		out = append(out, &Statement{Predicate: IronPrefURL, Values: []Value{Literal{Value: rec.PrefURL}}})
	}
	out = append(out, rec.Statements()...)

	filtered := out[:0]
	for _, stmt := range out {
		values := p.nonEmpty(rec.URI, stmt.Predicate, stmt.Values)
		if len(values) == 0 {
			continue
		}
		filtered = append(filtered, &Statement{Predicate: stmt.Predicate, Values: values})
	}
	return filtered
}

// explicitAltLabels returns the alternative labels to write as iron:altLabel:
// those neither equal to the preferred label nor carried by a label
// statement that is written anyway.
func explicitAltLabels(rec *Record) []string {
	carried := statementLabels(rec)
	if rec.PrefLabel != "" {
		carried[rec.PrefLabel] = struct{}{}
	}
	return carried.appendNew(nil, rec.AltLabels)
}

// records returns the records to write, skipping those without a URI.
func (p *encodePass) records(store *Store) []*Record {
	if store == nil {
		return nil
	}
	all := store.Records()
	out := all[:0:0]
	for _, rec := range all {
		if rec.URI == "" {
			p.warn(ErrCodeEmptyAtomSkipped, "", "", "record without URI skipped")
			continue
		}
		out = append(out, rec)
	}
	return out
}

// decodePass is the state of one import.
type decodePass struct {
	format   Format
	prefixes *PrefixRegistry
	warnings Warnings
	logger   *slog.Logger
}

// expand resolves a CURIE through the document scope. Unknown prefixes are
// kept verbatim and reported.
func (d *decodePass) expand(value, subject string) string {
	if value == "" {
		return ""
	}
	uri, ok := d.prefixes.ExpandOK(value)
	if !ok && isCURIEShaped(value) {
		d.warn(ErrCodeUnknownPrefix, subject, value, "unregistered prefix kept verbatim")
	}
	return uri
}

func (d *decodePass) warn(code ErrorCode, subject, predicate, msg string) {
	d.warnings = append(d.warnings, Warning{Code: code, Subject: subject, Predicate: predicate, Message: msg})
	d.logger.Debug(msg, "code", string(code), "format", string(d.format), "subject", subject, "predicate", predicate)
}

// addRecord finishes a decoded record and stores it.
func (d *decodePass) addRecord(store *Store, rec *Record) {
	promoteFields(rec)
	if !store.Add(rec) {
		d.warn(ErrCodeDuplicateRecord, rec.URI, "", "duplicate subject ignored")
	}
}

func isCURIEShaped(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] == ':' {
			return i > 0
		}
	}
	return false
}
