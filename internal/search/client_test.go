package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
	"stats": {"scanned_events": 12000, "duration": "45ms", "match_count": 2},
	"matches": [
		{"timestamp": "2024-01-01T00:00:00Z", "source": "web-1", "message": "boot"},
		{"timestamp": "2024-01-01T00:00:05Z", "source": "web-1", "message": "ready"}
	]
}`

func TestClient_Search(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleBody))
	}))
	defer server.Close()

	q, err := Build("web-1", "")
	require.NoError(t, err)

	c := NewClient(server.URL, WithUserAgent("chronos-test/1.0"))
	res, err := c.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "source=web-1", gotQuery)
	assert.Equal(t, "chronos-test/1.0", gotUA)

	assert.Equal(t, int64(12000), res.Stats.ScannedEvents)
	assert.Equal(t, "45ms", res.Stats.Duration)
	assert.Equal(t, int64(2), res.Stats.MatchCount)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "boot", res.Matches[0].Message)
	assert.Equal(t, "ready", res.Matches[1].Message)
}

func TestClient_SearchFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   RequestKind
		wantStatus int
		wantMsg    string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantKind:   HTTPFailure,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Search failed",
		},
		{
			name: "bad request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			wantKind:   HTTPFailure,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Search failed",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"stats":`))
			},
			wantKind: Transport,
			wantMsg:  "decoding response",
		},
		{
			name: "missing stats",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"matches": []}`))
			},
			wantKind: Transport,
			wantMsg:  "missing stats",
		},
		{
			name: "wrong type for scanned_events",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"stats":{"scanned_events":"many","duration":"1ms","match_count":0},"matches":[]}`))
			},
			wantKind: Transport,
			wantMsg:  "decoding response",
		},
	}

	q, err := Build("", "boot")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewClient(server.URL).Search(context.Background(), q)
			require.Error(t, err)

			var re *RequestError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.wantKind, re.Kind)
			assert.Equal(t, tt.wantStatus, re.Status)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	q, err := Build("web-1", "")
	require.NoError(t, err)

	_, err = NewClient(base, WithTimeout(2*time.Second)).Search(context.Background(), q)
	require.Error(t, err)

	var re *RequestError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, Transport, re.Kind)
	assert.True(t, strings.HasPrefix(err.Error(), "fetching results"))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", sampleBody, ""},
		{"empty matches", `{"stats":{"scanned_events":0,"duration":"1ms","match_count":0},"matches":[]}`, ""},
		{"extra fields tolerated", `{"stats":{"scanned_segments":3,"scanned_events":1,"duration":"1ms","match_count":0,"extra":true},"matches":[]}`, ""},
		{"missing matches", `{"stats":{"scanned_events":0,"duration":"1ms","match_count":0}}`, "missing matches"},
		{"missing duration", `{"stats":{"scanned_events":0,"match_count":0},"matches":[]}`, "missing stats.duration"},
		{"missing match_count", `{"stats":{"scanned_events":0,"duration":"1ms"},"matches":[]}`, "missing stats.match_count"},
		{"negative count", `{"stats":{"scanned_events":-1,"duration":"1ms","match_count":0},"matches":[]}`, "negative stats.scanned_events"},
		{"incomplete match", `{"stats":{"scanned_events":1,"duration":"1ms","match_count":1},"matches":[{"source":"a","message":"b"}]}`, "incomplete match at index 0"},
		{"null matches", `{"stats":{"scanned_events":0,"duration":"1ms","match_count":0},"matches":null}`, "missing matches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode(strings.NewReader(tt.body))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, res.Matches)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			var re *RequestError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, Transport, re.Kind)
		})
	}
}

func TestDecode_ScannedSegments(t *testing.T) {
	res, err := Decode(strings.NewReader(`{"stats":{"scanned_segments":4,"scanned_events":10,"duration":"2ms","match_count":0},"matches":[]}`))
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Stats.ScannedSegments)
}
