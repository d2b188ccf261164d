package resultset

import (
	"context"
	"fmt"
	"os"
	"strings"
)

func ExampleEncode() {
	store := NewStore()
	store.Add(NewBuilder("http://ex.org/r1").
		AddType("foaf:Person").
		SetPrefLabel("Alice").
		Finish())

	if _, err := Encode(context.Background(), os.Stdout, store, FormatRDFN3); err != nil {
		fmt.Println("error:", err)
	}

	// Output:
	// @prefix iron: <http://purl.org/ontology/iron#> .
	// @prefix foaf: <http://xmlns.com/foaf/0.1/> .
	//
	// <http://ex.org/r1> a foaf:Person ;
	//                    iron:prefLabel "Alice" .
}

func ExampleDecode() {
	doc := `<resultset>
  <prefix entity="ex" uri="http://ex.org/vocab#" />
  <subject type="ex:Widget" uri="http://ex.org/w1">
    <predicate type="dcterms:title"><object type="rdfs:Literal">Gizmo</object></predicate>
  </subject>
</resultset>`
	store, _, err := Decode(context.Background(), strings.NewReader(doc), FormatXML)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	rec, _ := store.Record("http://ex.org/w1")
	fmt.Println(rec.PrimaryType())
	fmt.Println(rec.PrefLabel)

	// Output:
	// http://ex.org/vocab#Widget
	// Gizmo
}

func ExamplePrefixRegistry_Compact() {
	r := NewPrefixRegistry()
	fmt.Println(r.Compact("http://xmlns.com/foaf/0.1/Person"))
	fmt.Println(r.Compact("http://vocab.example/terms#mood"))

	// Output:
	// foaf:Person
	// ns0:mood
}
