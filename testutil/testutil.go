package testutil

// Helpers and configuration for tests.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/parse"
	"tresjolie.dev/transit/storage"
)

const (
	// Set to run storage backed tests against postgres too.
	PostgresConnStr = ""
)

// Backends exercised by tests, postgres included when configured.
func Backends() []string {
	backends := []string{"memory", "sqlite"}
	if PostgresConnStr != "" {
		backends = append(backends, "postgres")
	}
	return backends
}

func BuildStorage(t testing.TB, backend string) storage.Storage {
	var s storage.Storage
	var err error
	switch backend {
	case "memory":
		s = storage.NewMemoryStorage()
	case "sqlite":
		s, err = storage.NewSQLiteStorage()
		require.NoError(t, err)
	case "postgres":
		s, err = storage.NewPSQLStorage(PostgresConnStr, true)
		require.NoError(t, err)
	}
	require.NotEqual(t, nil, s, "unknown backend %q", backend)
	t.Cleanup(func() { s.Close() })

	return s
}

// Parses stops from stops.csv rows. The header is added if missing.
func BuildStops(t testing.TB, rows ...string) []model.Stop {
	if len(rows) == 0 || !strings.HasPrefix(rows[0], "stop_code") {
		rows = append([]string{"stop_code,stop_name,stop_lat,stop_lon,stop_dir,stop_lines,stop_muni,stop_zone"}, rows...)
	}
	stops, err := parse.ParseStopsCSV("test", strings.NewReader(strings.Join(rows, "\n")))
	require.NoError(t, err)
	return stops
}

// Journeys API stand-in. Responses are keyed by endpoint, with the
// encoded query appended after "?" when present. Unknown keys get a
// 404.
type JourneysServer struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]string
	requests  []string
}

func NewJourneysServer(t testing.TB) *JourneysServer {
	j := &JourneysServer{responses: map[string]string{}}
	j.Server = httptest.NewServer(http.HandlerFunc(j.handle))
	t.Cleanup(j.Server.Close)
	return j
}

// Base URL for journeys.NewClient.
func (j *JourneysServer) URL() string {
	return j.Server.URL + "/journeys/api/1/"
}

// Serves body, a JSON array, as a successful JSend response.
func (j *JourneysServer) Success(key string, body interface{}) {
	buf, _ := json.Marshal(map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{},
		"body":   body,
	})
	j.Raw(key, string(buf))
}

func (j *JourneysServer) Raw(key string, response string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.responses[key] = response
}

func (j *JourneysServer) Requests() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string{}, j.requests...)
}

func (j *JourneysServer) handle(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/journeys/api/1/")
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.Query().Encode()
	}

	j.mu.Lock()
	j.requests = append(j.requests, key)
	response, found := j.responses[key]
	j.mu.Unlock()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(response))
}

// A stop point as returned by the Journeys API.
func StopPoint(code, name, location, municipality, zone string) map[string]interface{} {
	sp := map[string]interface{}{
		"url":        "http://data.itsfactory.fi/journeys/api/1/stop-points/" + code,
		"shortName":  code,
		"name":       name,
		"location":   location,
		"tariffZone": zone,
	}
	if municipality != "" {
		sp["municipality"] = map[string]interface{}{"shortName": municipality}
	}
	return sp
}

func Line(name, description string) map[string]interface{} {
	return map[string]interface{}{
		"url":         "http://data.itsfactory.fi/journeys/api/1/lines/" + name,
		"name":        name,
		"description": description,
	}
}
