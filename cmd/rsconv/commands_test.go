package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `<?xml version="1.0" encoding="utf-8"?>
<resultset>
  <prefix entity="ex" uri="http://ex.org/vocab#" />
  <subject type="foaf:Person" uri="http://ex.org/r1">
    <predicate type="iron:prefLabel"><object type="rdfs:Literal">Alice</object></predicate>
    <predicate type="dcterms:isPartOf"><object uri="http://ex.org/datasets/people" /></predicate>
  </subject>
  <subject type="ex:Book" uri="http://ex.org/b1">
    <predicate type="dcterms:title"><object type="rdfs:Literal">Dune</object></predicate>
  </subject>
</resultset>`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDocument(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))
	return path
}

func TestConvertStdin(t *testing.T) {
	out, err := run(t, document, "convert", "--to", "n3")
	require.NoError(t, err)
	assert.Contains(t, out, "<http://ex.org/r1> a foaf:Person ;")
	assert.Contains(t, out, `iron:prefLabel "Alice"`)
}

func TestConvertFileToFile(t *testing.T) {
	in := writeDocument(t, "people.xml")
	target := filepath.Join(t.TempDir(), "people.json")

	out, err := run(t, "", "convert", in, "--to", "json", "--out", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"iron:prefLabel": "Alice"`)

	back, err := run(t, "", "convert", target, "--to", "ntriples")
	require.NoError(t, err, "json files are read by extension")
	assert.Contains(t, back, `<http://ex.org/b1> <http://purl.org/dc/terms/title> "Dune" .`)
}

func TestConvertErrors(t *testing.T) {
	_, err := run(t, document, "convert", "--to", "pdf")
	assert.Error(t, err)

	_, err = run(t, document, "convert", "--from", "n3")
	assert.Error(t, err, "n3 cannot be read")

	_, err = run(t, "<resultset", "convert")
	assert.Error(t, err)

	_, err = run(t, document, "convert", "--to", "ironjson")
	assert.Error(t, err, "no converter endpoint configured")
}

func TestQuery(t *testing.T) {
	out, err := run(t, document, "query")
	require.NoError(t, err)
	assert.Equal(t, "http://ex.org/r1\tfoaf:Person\tAlice\nhttp://ex.org/b1\tex:Book\t\n", out,
		"labels come from iron:prefLabel as written")

	out, err = run(t, document, "query", "--type", "ex:Book")
	require.NoError(t, err)
	assert.Equal(t, "http://ex.org/b1\tex:Book\t\n", out)

	out, err = run(t, document, "query", "--index")
	require.NoError(t, err)
	assert.Contains(t, out, `"uri": "http://ex.org/r1"`)
	assert.Contains(t, out, `"texts": [`)
}

func TestQueryReadsDocumentAsWritten(t *testing.T) {
	doc := `<resultset>
  <subject type="foaf:Person" uri="http://ex.org/r1">
    <predicate type="iron:prefLabel"><object type="rdfs:Literal">Alice</object></predicate>
  </subject>
  <subject type="foaf:Agent" uri="http://ex.org/r1">
    <predicate type="iron:prefLabel"><object type="rdfs:Literal">Alice again</object></predicate>
  </subject>
</resultset>`
	out, err := run(t, doc, "query")
	require.NoError(t, err)
	assert.Equal(t, "http://ex.org/r1\tfoaf:Person\tAlice\nhttp://ex.org/r1\tfoaf:Agent\tAlice again\n", out,
		"duplicate subjects are listed, not merged into a store")
}

func TestQueryJSON(t *testing.T) {
	in := writeDocument(t, "people.xml")
	target := filepath.Join(t.TempDir(), "people.json")
	_, err := run(t, "", "convert", in, "--to", "json", "--out", target)
	require.NoError(t, err)

	out, err := run(t, "", "query", target, "--type", "foaf:Person")
	require.NoError(t, err)
	assert.Equal(t, "http://ex.org/r1\tfoaf:Person\tAlice\n", out)
}

type closer struct{ err error }

func (c closer) Close() error { return c.err }

func TestCloseInto(t *testing.T) {
	closeFailed := errors.New("close failed")

	var err error
	closeInto(closer{err: closeFailed}, &err)
	assert.ErrorIs(t, err, closeFailed)

	writeFailed := errors.New("write failed")
	err = writeFailed
	closeInto(closer{err: closeFailed}, &err)
	assert.ErrorIs(t, err, writeFailed, "the first error is kept")

	err = nil
	closeInto(closer{}, &err)
	assert.NoError(t, err)
}

func TestStore(t *testing.T) {
	db := t.TempDir()
	in := writeDocument(t, "people.xml")

	out, err := run(t, "", "store", "put", in, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "stored 2 of 2 records\n", out)

	out, err = run(t, "", "store", "put", in, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "stored 0 of 2 records\n", out)

	out, err = run(t, "", "store", "datasets", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "http://ex.org/datasets/people\nunspecified\n", out)

	out, err = run(t, "", "store", "get", "http://ex.org/r1", "--db", db, "--to", "n3")
	require.NoError(t, err)
	assert.Contains(t, out, `iron:prefLabel "Alice"`)

	out, err = run(t, "", "store", "get", "--dataset", "unspecified", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, `uri="http://ex.org/b1"`)

	_, err = run(t, "", "store", "get", "--db", db)
	assert.Error(t, err)

	_, err = run(t, "", "store", "get", "http://ex.org/none", "--db", db)
	assert.Error(t, err)
}

func TestStoreWithoutPath(t *testing.T) {
	t.Setenv("STRUCTWSF_STORE_PATH", "")
	_, err := run(t, "", "store", "datasets")
	assert.Error(t, err)
}
