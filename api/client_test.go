package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Slayer-Regen/ecoquest-client/api"
	"github.com/Slayer-Regen/ecoquest-client/session"
	storagerepofake "github.com/Slayer-Regen/ecoquest-client/storage/repofake"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, data any, errMsg, errCode string) {
	body := map[string]any{"success": errMsg == "", "data": data}
	if errMsg != "" {
		body["error"] = map[string]string{"message": errMsg, "code": errCode}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_BearerInjection(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]any{"balance": 10}, "", "")
	}))
	defer server.Close()

	store := session.NewStore(storagerepofake.NewFakeStorageRepo())
	client := api.NewClient(server.URL, store)

	t.Run("unauthenticated when no token held", func(t *testing.T) {
		_, err := client.GetPoints(context.Background())
		require.NoError(t, err)
		require.Empty(t, gotAuth)
	})

	t.Run("bearer header when token held", func(t *testing.T) {
		store.SetCredentials(nil, "abc")
		_, err := client.GetPoints(context.Background())
		require.NoError(t, err)
		require.Equal(t, "Bearer abc", gotAuth)
	})
}

func TestClient_EnvelopeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, nil, "activity date in the future", "VALIDATION")
	}))
	defer server.Close()

	client := api.NewClient(server.URL, nil)
	_, err := client.GetDashboard(context.Background())

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "activity date in the future", apiErr.Message)
	require.Equal(t, "VALIDATION", apiErr.Code)
	require.NotErrorIs(t, err, api.ErrUnauthorized)
}

func TestClient_UnauthorizedMapsToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "token expired", "")
	}))
	defer server.Close()

	client := api.NewClient(server.URL, nil)
	_, err := client.GetUser(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestClient_NonJSONFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, nil)
	_, err := client.GetSummaries(context.Background())

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestClient_ExportStreamsCSV(t *testing.T) {
	const csv = "date,type,co2_kg\n2025-06-01,commute,1.20\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/export/activities", r.URL.Path)
		require.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csv))
	}))
	defer server.Close()

	store := session.NewStore(storagerepofake.NewFakeStorageRepo())
	store.SetCredentials(nil, "abc")
	client := api.NewClient(server.URL, store)

	var buf bytes.Buffer
	require.NoError(t, client.ExportActivitiesCSV(context.Background(), &buf))
	require.Equal(t, csv, buf.String())
}

func TestClient_LoginURL(t *testing.T) {
	client := api.NewClient("http://localhost:3000/", nil)
	require.Equal(t, "http://localhost:3000/api/auth/google", client.LoginURL())
}
