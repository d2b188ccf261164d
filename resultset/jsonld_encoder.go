package resultset

import (
	"context"
	"encoding/json"
	"io"

	ld "github.com/piprate/json-gold/ld"
)

const jsonLDDefaultGraph = "@default"

// encodeJSONLD converts the flattened triples to JSON-LD with json-gold and
// compacts the result with a context built from the namespaces in use.
func encodeJSONLD(ctx context.Context, p *encodePass, w io.Writer, store *Store) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	dataset := ld.NewRDFDataset()
	var quads []*ld.Quad
	walkTriples(p, store, func(t triple) {
		var subject ld.Node = ld.NewIRI(t.subject)
		if t.blank {
			subject = ld.NewBlankNode("_:" + t.subject)
		}
		object := jsonLDObject(p, t.object)
		quads = append(quads, ld.NewQuad(subject, ld.NewIRI(t.predicate), object, jsonLDDefaultGraph))
	})
	dataset.Graphs[jsonLDDefaultGraph] = quads

	proc := ld.NewJsonLdProcessor()
	goldOpts := ld.NewJsonLdOptions("")
	expanded, err := proc.FromRDF(dataset, goldOpts)
	if err != nil {
		return &Error{Code: ErrCodeIOError, Format: p.format, Message: "json-ld conversion failed", Err: err}
	}

	context := map[string]interface{}{}
	for _, ns := range p.usedNamespaces() {
		context[ns.Prefix] = ns.URI
	}
	compacted, err := proc.Compact(expanded, map[string]interface{}{"@context": context}, goldOpts)
	if err != nil {
		return &Error{Code: ErrCodeIOError, Format: p.format, Message: "json-ld compaction failed", Err: err}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(compacted); err != nil {
		return &Error{Code: ErrCodeIOError, Format: p.format, Err: err}
	}
	return nil
}

func jsonLDObject(p *encodePass, v Value) ld.Node {
	switch value := v.(type) {
	case Resource:
		return ld.NewIRI(value.URI)
	case Literal:
		if value.Lang != "" {
			return ld.NewLiteral(value.Value, ld.RDFLangString, value.Lang)
		}
		if dt := value.DatatypeOrDefault(); dt != RDFSLiteral && IsAbsoluteURI(dt) {
			p.touch(dt)
			return ld.NewLiteral(value.Value, dt, "")
		}
		return ld.NewLiteral(value.Value, ld.XSDString, "")
	}
	return ld.NewLiteral("", ld.XSDString, "")
}
