package resultset

// Builder constructs one Record. CURIEs given to the builder are expanded
// through its prefix registry, so the finished record only holds absolute
// URIs (or the input unchanged when its prefix is unknown).
//
// Setters only mutate the builder's own record and return the builder for
// chaining.
type Builder struct {
	rec      *Record
	prefixes *PrefixRegistry
}

// NewBuilder starts a record for uri using the core prefix registry.
func NewBuilder(uri string) *Builder {
	return NewBuilderWithPrefixes(uri, NewPrefixRegistry())
}

// NewBuilderWithPrefixes starts a record for uri, expanding CURIEs through
// prefixes. The registry is only read.
func NewBuilderWithPrefixes(uri string, prefixes *PrefixRegistry) *Builder {
	if prefixes == nil {
		prefixes = NewPrefixRegistry()
	}
	return &Builder{rec: NewRecord(uri), prefixes: prefixes}
}

// AddType appends a type. Adding a type twice is a no-op.
func (b *Builder) AddType(curie string) *Builder {
	if curie == "" {
		return b
	}
	b.rec.addType(b.prefixes.Expand(curie))
	return b
}

// SetPrefLabel sets the preferred label.
func (b *Builder) SetPrefLabel(text string) *Builder {
	b.rec.PrefLabel = text
	return b
}

// AddAltLabel appends an alternative label.
func (b *Builder) AddAltLabel(text string) *Builder {
	b.rec.AltLabels = append(b.rec.AltLabels, text)
	return b
}

// SetDescription sets the description.
func (b *Builder) SetDescription(text string) *Builder {
	b.rec.Description = text
	return b
}

// SetPrefURL sets the preferred URL.
func (b *Builder) SetPrefURL(text string) *Builder {
	b.rec.PrefURL = text
	return b
}

// SetLiteral appends a literal value under predicate. An empty datatype means
// rdfs:Literal; an empty lang means no language tag. Prior values of the
// predicate are kept.
func (b *Builder) SetLiteral(predicate, value, datatype, lang string) *Builder {
	if datatype == "" {
		datatype = RDFSLiteral
	}
	b.rec.Add(b.prefixes.Expand(predicate), Literal{
		Value:    value,
		Datatype: b.prefixes.Expand(datatype),
		Lang:     lang,
	})
	return b
}

// SetResource appends a resource value under predicate. reify may be nil;
// its predicates are expanded like any other CURIE. An rdf:type resource is
// added to the record's types, as AddType does, and its reification and type
// hint are dropped.
func (b *Builder) SetResource(predicate, uri string, reify *Reification, typeHint string) *Builder {
	if b.prefixes.Expand(predicate) == RDFType {
		return b.AddType(uri)
	}
	res := Resource{URI: uri, Reify: b.expandReification(reify)}
	if typeHint != "" {
		res.Type = b.prefixes.Expand(typeHint)
	}
	b.rec.Add(b.prefixes.Expand(predicate), res)
	return b
}

// Finish returns the built record. The builder must not be used afterwards.
func (b *Builder) Finish() *Record {
	rec := b.rec
	b.rec = nil
	return rec
}

func (b *Builder) expandReification(reify *Reification) *Reification {
	if reify.Len() == 0 {
		return nil
	}
	out := NewReification()
	reify.Each(func(predicate, value string) {
		out.Add(b.prefixes.Expand(predicate), value)
	})
	return out
}
