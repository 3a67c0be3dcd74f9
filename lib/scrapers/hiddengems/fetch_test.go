package hiddengems

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hiddengems-bot/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/hiddengems")
	t.Cleanup(cleanup)

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(fixture))
		},
	))
	t.Cleanup(server.Close)

	client := NewClient(ClientOptions{Url: server.URL})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)

	snapshot, err := client.Fetch(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, snapshot.Records)
}

func TestFetchHttpError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/hiddengems")
	t.Cleanup(cleanup)

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	))
	t.Cleanup(server.Close)

	client := NewClient(ClientOptions{Url: server.URL})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)

	_, err := client.Fetch(ctx)
	var fetchErr FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.Status)
}
