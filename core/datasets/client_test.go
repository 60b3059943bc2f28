package datasets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, TimeoutSeconds: 5})
}

func TestNumRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/info", r.URL.Path)
		assert.Equal(t, "test/ds", r.URL.Query().Get("dataset"))
		w.Write([]byte(`{"dataset_info":{"splits":{"train":{"num_examples":1200}}}}`))
	})

	n, err := client.NumRows(context.Background(), "test/ds", "default", "train")
	require.NoError(t, err)
	assert.Equal(t, 1200, n)
}

func TestNumRowsUnknownSplit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dataset_info":{"splits":{"train":{"num_examples":10}}}}`))
	})

	_, err := client.NumRows(context.Background(), "test/ds", "default", "validation")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rows", r.URL.Path)
		assert.Equal(t, "40", r.URL.Query().Get("offset"))
		assert.Equal(t, "20", r.URL.Query().Get("length"))
		w.Write([]byte(`{"rows":[{"row_idx":40,"row":{"prompt":"a cat","image":{"src":"https://images.example.com/a.jpg"}}}]}`))
	})

	rows, err := client.Rows(context.Background(), "test/ds", "default", "train", 40, 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 40, rows[0].Idx)
	assert.Equal(t, "a cat", rows[0].Row["prompt"])
}

func TestRowsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Rows(context.Background(), "test/ds", "default", "train", 0, 10)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRowsContextDeadline(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Rows(ctx, "test/ds", "default", "train", 0, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable))
}
