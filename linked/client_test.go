package linked

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/structwsf/resultset"
)

const document = `<?xml version="1.0" encoding="utf-8"?><resultset></resultset>`

func newConverter(t *testing.T, status int, cacheControl string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "text/xml", r.PostForm.Get("docmime"))
		assert.Equal(t, document, r.PostForm.Get("text"))
		assert.Equal(t, "http://ex.org/schema.json", r.PostForm.Get("schema"))
		if cacheControl != "" {
			w.Header().Set("Cache-Control", cacheControl)
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"dataset":{"id":"x"}}`))
			return
		}
		_, _ = w.Write([]byte("linkage schema not found"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTransform(t *testing.T) {
	var calls atomic.Int32
	srv := newConverter(t, http.StatusOK, "", &calls)
	client := New(map[resultset.Format]string{resultset.FormatIronJSON: srv.URL}, WithSchema("http://ex.org/schema.json"))

	out, err := client.Transform(context.Background(), []byte(document), resultset.FormatIronJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dataset":{"id":"x"}}`, string(out))
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransformNonSuccessStatus(t *testing.T) {
	var calls atomic.Int32
	srv := newConverter(t, http.StatusBadRequest, "", &calls)
	client := New(map[resultset.Format]string{resultset.FormatIronCSV: srv.URL}, WithSchema("http://ex.org/schema.json"))

	out, err := client.Transform(context.Background(), []byte(document), resultset.FormatIronCSV)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, resultset.ErrDelegatedTransform))

	var rsErr *resultset.Error
	require.True(t, errors.As(err, &rsErr))
	assert.Equal(t, http.StatusBadRequest, rsErr.Status)
	assert.Equal(t, "linkage schema not found", rsErr.Message)
}

func TestTransformUnknownFormat(t *testing.T) {
	client := New(nil)
	_, err := client.Transform(context.Background(), []byte(document), resultset.FormatIronJSON)
	assert.Equal(t, resultset.ErrCodeDelegatedTransform, resultset.Code(err))
}

func TestTransformUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(map[resultset.Format]string{resultset.FormatIronJSON: url})
	_, err := client.Transform(context.Background(), []byte(document), resultset.FormatIronJSON)
	assert.Equal(t, resultset.ErrCodeDelegatedTransform, resultset.Code(err))
}

func TestTransformCachesCacheableResponses(t *testing.T) {
	var calls atomic.Int32
	srv := newConverter(t, http.StatusOK, "public, max-age=300", &calls)
	client := New(map[resultset.Format]string{resultset.FormatIronJSON: srv.URL},
		WithSchema("http://ex.org/schema.json"), WithCache())

	for i := 0; i < 3; i++ {
		out, err := client.Transform(context.Background(), []byte(document), resultset.FormatIronJSON)
		require.NoError(t, err)
		assert.JSONEq(t, `{"dataset":{"id":"x"}}`, string(out))
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransformSkipsNoStore(t *testing.T) {
	var calls atomic.Int32
	srv := newConverter(t, http.StatusOK, "no-store", &calls)
	client := New(map[resultset.Format]string{resultset.FormatIronJSON: srv.URL},
		WithSchema("http://ex.org/schema.json"), WithCache())

	for i := 0; i < 2; i++ {
		_, err := client.Transform(context.Background(), []byte(document), resultset.FormatIronJSON)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestEncodeThroughClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("uri,prefLabel\nhttp://ex.org/r1,Alice\n"))
	}))
	defer srv.Close()

	store := resultset.NewStore()
	store.Add(resultset.NewBuilder("http://ex.org/r1").SetPrefLabel("Alice").Finish())
	client := New(map[resultset.Format]string{resultset.FormatIronCSV: srv.URL})

	out, _, err := resultset.EncodeToBytes(context.Background(), store, resultset.FormatIronCSV, resultset.WithTransformer(client))
	require.NoError(t, err)
	assert.Contains(t, string(out), "http://ex.org/r1,Alice")
}
