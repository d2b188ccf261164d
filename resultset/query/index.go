package query

import (
	"context"
	"fmt"

	"github.com/geoknoesis/structwsf/resultset"
)

// ErrCodeTypeHierarchy reports a subject left out of the index fragments
// because its super types could not be resolved.
const ErrCodeTypeHierarchy resultset.ErrorCode = "TYPE_HIERARCHY_FAILURE"

// TypeHierarchy resolves the super types of a class. It is usually backed by
// the ontology service.
type TypeHierarchy interface {
	SuperTypes(ctx context.Context, typeURI string) ([]string, error)
}

// TypeHierarchyFunc adapts a function to TypeHierarchy.
type TypeHierarchyFunc func(ctx context.Context, typeURI string) ([]string, error)

// SuperTypes calls f.
func (f TypeHierarchyFunc) SuperTypes(ctx context.Context, typeURI string) ([]string, error) {
	return f(ctx, typeURI)
}

// Property is the indexable text of one predicate.
type Property struct {
	Predicate string   `json:"predicate"`
	Texts     []string `json:"texts"`
}

// Fragment is what the indexer stores for one subject.
type Fragment struct {
	URI           string     `json:"uri"`
	Types         []string   `json:"types"`
	InferredTypes []string   `json:"inferredTypes,omitempty"`
	Properties    []Property `json:"properties"`
}

// IndexFragments extracts one Fragment per subject: its types, the super
// types reported by hierarchy, and the literal texts and object labels of
// every predicate. hierarchy may be nil. A subject whose hierarchy lookup
// fails is omitted and reported as a warning.
func (d *Document) IndexFragments(ctx context.Context, hierarchy TypeHierarchy) ([]Fragment, resultset.Warnings, error) {
	var fragments []Fragment
	var warnings resultset.Warnings
	for _, s := range d.Subjects() {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}
		uri := s.URI()
		if uri == "" {
			warnings = append(warnings, resultset.Warning{Code: resultset.ErrCodeEmptyAtomSkipped, Message: "subject without uri skipped"})
			continue
		}
		frag := Fragment{URI: uri, Types: s.Types()}
		if hierarchy != nil {
			inferred, err := inferTypes(ctx, hierarchy, frag.Types)
			if err != nil {
				warnings = append(warnings, resultset.Warning{Code: ErrCodeTypeHierarchy, Subject: uri, Message: err.Error()})
				continue
			}
			frag.InferredTypes = inferred
		}
		frag.Properties = d.properties(s)
		fragments = append(fragments, frag)
	}
	return fragments, warnings, nil
}

func inferTypes(ctx context.Context, hierarchy TypeHierarchy, types []string) ([]string, error) {
	var inferred []string
	for _, t := range types {
		supers, err := hierarchy.SuperTypes(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("super types of %s: %w", t, err)
		}
		for _, super := range supers {
			if super != "" && !contains(types, super) && !contains(inferred, super) {
				inferred = append(inferred, super)
			}
		}
	}
	return inferred, nil
}

func (d *Document) properties(subject Node) []Property {
	var props []Property
	index := map[string]int{}
	for _, p := range d.Predicates(subject) {
		predicate := p.Type(false)
		if predicate == resultset.RDFType {
			continue
		}
		var texts []string
		for _, o := range d.Objects(p) {
			text := o.Content()
			if text == "" {
				text = o.Label()
			}
			if text != "" {
				texts = append(texts, text)
			}
		}
		if len(texts) == 0 {
			continue
		}
		if i, ok := index[predicate]; ok {
			props[i].Texts = append(props[i].Texts, texts...)
			continue
		}
		index[predicate] = len(props)
		props = append(props, Property{Predicate: predicate, Texts: texts})
	}
	return props
}
