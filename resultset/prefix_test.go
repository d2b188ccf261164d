package resultset

import "testing"

func TestCompactCoreNamespace(t *testing.T) {
	r := NewPrefixRegistry()
	if got := r.Compact("http://xmlns.com/foaf/0.1/Person"); got != "foaf:Person" {
		t.Fatalf("unexpected compact form: %s", got)
	}
	if got := r.Compact(NSRDFS + "label"); got != "rdfs:label" {
		t.Fatalf("unexpected compact form: %s", got)
	}
}

func TestCompactSynthesizesStablePrefix(t *testing.T) {
	r := NewPrefixRegistry()
	first := r.Compact("http://unknown.example/vocab#a")
	second := r.Compact("http://unknown.example/vocab#b")
	if first != "ns0:a" || second != "ns0:b" {
		t.Fatalf("expected ns0 for both, got %s and %s", first, second)
	}
	if got := r.Compact("http://other.example/terms/c"); got != "ns1:c" {
		t.Fatalf("expected ns1 for a second namespace, got %s", got)
	}
	if ns, ok := r.Namespace("ns0"); !ok || ns != "http://unknown.example/vocab#" {
		t.Fatalf("ns0 not registered: %q %v", ns, ok)
	}
}

func TestCompactSkipsTakenSyntheticPrefix(t *testing.T) {
	r := NewPrefixRegistry()
	r.Bind("ns0", "http://taken.example/")
	if got := r.Compact("http://fresh.example/x#y"); got != "ns1:y" {
		t.Fatalf("expected ns1:y, got %s", got)
	}
}

func TestCompactLeavesNonURIsUnchanged(t *testing.T) {
	r := NewPrefixRegistry()
	cases := []string{"", "plain", "foaf:Person", "http://example.org/", "http://example.org"}
	for _, in := range cases {
		if got := r.Compact(in); got != in {
			t.Fatalf("Compact(%q) = %q", in, got)
		}
	}
	if r.Len() != len(corePrefixes) {
		t.Fatalf("registry grew to %d", r.Len())
	}
}

func TestSplitURIPrefersHash(t *testing.T) {
	ns, local, ok := SplitURI("http://example.org/a/b#c")
	if !ok || ns != "http://example.org/a/b#" || local != "c" {
		t.Fatalf("unexpected split: %q %q %v", ns, local, ok)
	}
	ns, local, ok = SplitURI("http://example.org/a/b")
	if !ok || ns != "http://example.org/a/" || local != "b" {
		t.Fatalf("unexpected split: %q %q %v", ns, local, ok)
	}
	if _, _, ok := SplitURI("urn:isbn"); ok {
		t.Fatal("expected urn without separator to fail")
	}
}

func TestExpand(t *testing.T) {
	r := NewPrefixRegistry()
	if got := r.Expand("foaf:Person"); got != NSFOAF+"Person" {
		t.Fatalf("unexpected expansion: %s", got)
	}
	if got := r.Expand("http://example.org/x"); got != "http://example.org/x" {
		t.Fatalf("absolute uri changed: %s", got)
	}
	got, ok := r.ExpandOK("xyz:unknownPred")
	if ok || got != "xyz:unknownPred" {
		t.Fatalf("unknown prefix: %q %v", got, ok)
	}
	got, ok = r.ExpandOK("urn:uuid:1234")
	if !ok || got != "urn:uuid:1234" {
		t.Fatalf("urn: %q %v", got, ok)
	}
	if got := r.Expand("nocolon"); got != "nocolon" {
		t.Fatalf("unexpected expansion: %s", got)
	}
}

func TestRegisterConflicts(t *testing.T) {
	r := NewEmptyPrefixRegistry()
	if !r.Register("ex", "http://example.org/") {
		t.Fatal("expected first registration to succeed")
	}
	if !r.Register("ex", "http://example.org/") {
		t.Fatal("expected identical registration to succeed")
	}
	if r.Register("ex", "http://other.org/") {
		t.Fatal("expected prefix conflict")
	}
	if r.Register("ex2", "http://example.org/") {
		t.Fatal("expected namespace conflict")
	}

	r.Bind("ex", "http://other.org/")
	if ns, _ := r.Namespace("ex"); ns != "http://other.org/" {
		t.Fatalf("bind did not override: %s", ns)
	}
	if _, ok := r.Prefix("http://example.org/"); ok {
		t.Fatal("old namespace still bound")
	}
	if r.Len() != 1 {
		t.Fatalf("expected one binding, got %d", r.Len())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewPrefixRegistry()
	c := r.Clone()
	c.Compact("http://unknown.example/x")
	if r.Len() == c.Len() {
		t.Fatal("clone shares state with the original")
	}
	if got := r.Compact("http://another.example/y"); got != "ns0:y" {
		t.Fatalf("original counter moved: %s", got)
	}
}

func TestNamespacesKeepRegistrationOrder(t *testing.T) {
	r := NewPrefixRegistry()
	namespaces := r.Namespaces()
	want := []string{"owl", "rdf", "rdfs", "iron", "xsd", "wsf"}
	for i, prefix := range want {
		if namespaces[i].Prefix != prefix {
			t.Fatalf("position %d: expected %s, got %s", i, prefix, namespaces[i].Prefix)
		}
	}
}
