package resultset

import "testing"

func TestBuilderAddTypeIsIdempotent(t *testing.T) {
	rec := NewBuilder("http://ex.org/r1").
		AddType("foaf:Person").
		AddType("foaf:Person").
		AddType(NSFOAF + "Person").
		AddType("foaf:Agent").
		Finish()
	if len(rec.Types) != 2 {
		t.Fatalf("expected 2 types, got %v", rec.Types)
	}
	if rec.PrimaryType() != NSFOAF+"Person" {
		t.Fatalf("unexpected primary type: %s", rec.PrimaryType())
	}
}

func TestBuilderSetLiteralAppends(t *testing.T) {
	rec := NewBuilder("http://ex.org/r1").
		SetLiteral("foaf:nick", "al", "", "").
		SetLiteral("foaf:nick", "ally", "", "en").
		SetLiteral("foaf:age", "42", "xsd:integer", "").
		Finish()
	nicks := rec.Values(NSFOAF + "nick")
	if len(nicks) != 2 {
		t.Fatalf("expected 2 values, got %d", len(nicks))
	}
	first := nicks[0].(Literal)
	if first.Datatype != RDFSLiteral {
		t.Fatalf("expected default datatype, got %s", first.Datatype)
	}
	if nicks[1].(Literal).Lang != "en" {
		t.Fatal("language tag lost")
	}
	age := rec.Values(NSFOAF + "age")[0].(Literal)
	if age.Datatype != NSXSD+"integer" {
		t.Fatalf("datatype not expanded: %s", age.Datatype)
	}
}

func TestBuilderSetResourceExpandsReification(t *testing.T) {
	rec := NewBuilder("http://ex.org/r1").
		SetResource("foaf:knows", "http://ex.org/r2", NewReification().Add("wsf:objectLabel", "Bob"), "foaf:Person").
		Finish()
	res := rec.Values(NSFOAF + "knows")[0].(Resource)
	if res.Type != NSFOAF+"Person" {
		t.Fatalf("type hint not expanded: %s", res.Type)
	}
	if got := res.Reify.Get(WSFObjectLabel); len(got) != 1 || got[0] != "Bob" {
		t.Fatalf("unexpected reification: %v", got)
	}
}

func TestBuilderSetResourceRoutesRDFType(t *testing.T) {
	rec := NewBuilder("http://ex.org/r1").
		AddType("foaf:Person").
		SetResource("rdf:type", "foaf:Agent", nil, "").
		SetResource(RDFType, NSFOAF+"Person", nil, "").
		Finish()
	if !equalStrings(rec.Types, []string{NSFOAF + "Person", NSFOAF + "Agent"}) {
		t.Fatalf("unexpected types: %v", rec.Types)
	}
	if _, ok := rec.Statement(RDFType); ok {
		t.Fatal("rdf:type must not be kept as a statement")
	}
}

func TestRecordDefaultsToThing(t *testing.T) {
	rec := NewRecord("http://ex.org/r1")
	if rec.PrimaryType() != OWLThing {
		t.Fatalf("unexpected default type: %s", rec.PrimaryType())
	}
	if !rec.HasType(OWLThing) {
		t.Fatal("expected owl:Thing membership")
	}
	if rec.Dataset() != UnspecifiedDataset {
		t.Fatalf("unexpected dataset: %s", rec.Dataset())
	}
}

func TestStoreFirstWriterWins(t *testing.T) {
	store := NewStore()
	first := NewBuilder("http://ex.org/r1").SetPrefLabel("first").Finish()
	second := NewBuilder("http://ex.org/r1").SetPrefLabel("second").Finish()
	if !store.Add(first) {
		t.Fatal("expected first add to succeed")
	}
	if store.Add(second) {
		t.Fatal("expected duplicate add to fail")
	}
	rec, ok := store.Record("http://ex.org/r1")
	if !ok || rec.PrefLabel != "first" {
		t.Fatalf("record overwritten: %+v", rec)
	}
}

func TestStoreDatasetBuckets(t *testing.T) {
	store := NewStore()
	inDataset := NewBuilder("http://ex.org/r1").
		SetResource("dcterms:isPartOf", "http://ex.org/datasets/a", nil, "").
		Finish()
	sameURI := NewBuilder("http://ex.org/r1").Finish()
	store.Add(inDataset)
	if !store.Add(sameURI) {
		t.Fatal("same uri in another dataset must be accepted")
	}

	datasets := store.Datasets()
	if len(datasets) != 2 || datasets[0] != "http://ex.org/datasets/a" || datasets[1] != UnspecifiedDataset {
		t.Fatalf("unexpected datasets: %v", datasets)
	}
	if _, ok := store.RecordIn(UnspecifiedDataset, "http://ex.org/r1"); !ok {
		t.Fatal("record missing from unspecified bucket")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", store.Len())
	}
}

func TestStoreRecordsByType(t *testing.T) {
	store := NewStore()
	store.Add(NewBuilder("http://ex.org/p1").AddType("foaf:Person").Finish())
	store.Add(NewBuilder("http://ex.org/o1").AddType("foaf:Organization").Finish())
	store.Add(NewBuilder("http://ex.org/p2").AddType("foaf:Agent").AddType("foaf:Person").Finish())

	people := store.RecordsByType("foaf:Person")
	if len(people) != 2 || people[0].URI != "http://ex.org/p1" || people[1].URI != "http://ex.org/p2" {
		t.Fatalf("unexpected result: %d records", len(people))
	}
	if got := store.RecordsByType(NSFOAF + "Organization"); len(got) != 1 {
		t.Fatalf("absolute type lookup failed: %d", len(got))
	}
}

func TestStoreMerge(t *testing.T) {
	a := NewStore()
	a.Add(NewBuilder("http://ex.org/r1").SetPrefLabel("a").Finish())

	prefixes := NewPrefixRegistry()
	prefixes.Register("ex", "http://ex.org/vocab#")
	b := NewStoreWithPrefixes(prefixes)
	b.Add(NewBuilder("http://ex.org/r1").SetPrefLabel("b").Finish())
	b.Add(NewBuilder("http://ex.org/r2").Finish())

	if added := a.Merge(b); added != 1 {
		t.Fatalf("expected 1 added record, got %d", added)
	}
	rec, _ := a.Record("http://ex.org/r1")
	if rec.PrefLabel != "a" {
		t.Fatalf("merge overwrote existing record: %s", rec.PrefLabel)
	}
	if _, ok := a.Prefixes().Namespace("ex"); !ok {
		t.Fatal("merged prefix missing")
	}
}

func TestPromoteLabelPriority(t *testing.T) {
	rec := NewRecord("http://ex.org/r1")
	rec.Add(RDFSLabel, Literal{Value: "B"})
	rec.Add(NSDC+"title", Literal{Value: "A"})
	promoteFields(rec)

	if rec.PrefLabel != "A" {
		t.Fatalf("expected dc:title to win, got %q", rec.PrefLabel)
	}
	if len(rec.AltLabels) != 1 || rec.AltLabels[0] != "B" {
		t.Fatalf("expected rdfs:label folded into altLabel, got %v", rec.AltLabels)
	}
	if len(rec.Values(NSDC+"title")) != 1 {
		t.Fatal("non-canonical winner must stay in the statements")
	}
}

func TestPromoteCanonicalFieldsAreRemoved(t *testing.T) {
	rec := NewRecord("http://ex.org/r1")
	rec.Add(IronPrefLabel, Literal{Value: "Alice"})
	rec.Add(IronAltLabel, Literal{Value: "Al"})
	rec.Add(IronDescription, Literal{Value: "A person"})
	rec.Add(IronPrefURL, Resource{URI: "http://alice.example/"})
	rec.Add(NSFOAF+"name", Literal{Value: "Alice Liddell"})
	promoteFields(rec)

	if rec.PrefLabel != "Alice" || rec.Description != "A person" || rec.PrefURL != "http://alice.example/" {
		t.Fatalf("unexpected fields: %+v", rec)
	}
	want := []string{"Al", "Alice Liddell"}
	if !equalStrings(rec.AltLabels, want) {
		t.Fatalf("expected %v, got %v", want, rec.AltLabels)
	}
	for _, p := range []string{IronPrefLabel, IronAltLabel, IronDescription, IronPrefURL} {
		if _, ok := rec.Statement(p); ok {
			t.Fatalf("%s still in statements", p)
		}
	}
	if _, ok := rec.Statement(NSFOAF + "name"); !ok {
		t.Fatal("foaf:name must stay in the statements")
	}
}

func TestRecordEqualIgnoresValueOrder(t *testing.T) {
	a := NewRecord("http://ex.org/r1")
	a.Add(NSFOAF+"nick", Literal{Value: "x"})
	a.Add(NSFOAF+"nick", Literal{Value: "y", Datatype: RDFSLiteral})
	b := NewRecord("http://ex.org/r1")
	b.Types = []string{OWLThing}
	b.Add(NSFOAF+"nick", Literal{Value: "y"})
	b.Add(NSFOAF+"nick", Literal{Value: "x"})
	if !a.Equal(b) {
		t.Fatal("expected records to be equal")
	}
	b.Add(NSFOAF+"nick", Literal{Value: "z"})
	if a.Equal(b) {
		t.Fatal("expected records to differ")
	}
}

func TestRecordEqualComparesPromotedLabels(t *testing.T) {
	built := NewBuilder("http://ex.org/r1").
		SetLiteral("rdfs:label", "B", "", "").
		SetLiteral("dc:title", "A", "", "").
		Finish()
	parsed := NewRecord("http://ex.org/r1")
	parsed.Add(RDFSLabel, Literal{Value: "B"})
	parsed.Add(NSDC+"title", Literal{Value: "A"})
	promoteFields(parsed)

	if !built.Equal(parsed) || !parsed.Equal(built) {
		t.Fatalf("expected equal records, parsed has %q %v", parsed.PrefLabel, parsed.AltLabels)
	}
	parsed.AltLabels = append(parsed.AltLabels, "C")
	if built.Equal(parsed) {
		t.Fatal("an extra alternative label must make records differ")
	}
}

func TestPromoteFoldsEachLabelOnce(t *testing.T) {
	rec := NewRecord("http://ex.org/r1")
	rec.Add(IronPrefLabel, Literal{Value: "A"})
	rec.Add(IronAltLabel, Literal{Value: "B"})
	rec.Add(NSDC+"title", Literal{Value: "A"})
	rec.Add(NSDC+"title", Literal{Value: "A2"})
	rec.Add(RDFSLabel, Literal{Value: "B"})
	promoteFields(rec)

	want := []string{"B", "A2"}
	if !equalStrings(rec.AltLabels, want) {
		t.Fatalf("expected %v, got %v", want, rec.AltLabels)
	}
}

func TestStoreEqualNil(t *testing.T) {
	var none *Store
	if NewStore().Equal(nil) {
		t.Fatal("a store never equals nil")
	}
	if none.Equal(NewStore()) {
		t.Fatal("nil never equals a store")
	}
	if !none.Equal(nil) {
		t.Fatal("nil equals nil")
	}
}

func TestLiteralText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "written by the encoder", raw: "  padded  \n        \n      ", want: "  padded  "},
		{name: "indented by hand", raw: "\n    Alice\n    \n  ", want: "Alice"},
		{name: "no layout", raw: "Alice", want: "Alice"},
		{name: "spaces only", raw: "   \n  ", want: "   "},
		{name: "layout only", raw: "\n    \n  ", want: ""},
		{name: "inner line break", raw: "a\nb\n  ", want: "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LiteralText(tt.raw); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
