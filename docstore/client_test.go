package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

// Minimal stand-in for the realtime database REST interface. Only
// whole documents are stored; GET on a collection returns the
// documents below it keyed by their last path element.
type mockStore struct {
	mu       sync.Mutex
	Docs     map[string]map[string]interface{}
	Requests []string
	Auth     []string
	Fail     int
}

func newMockStore() *mockStore {
	return &mockStore{Docs: map[string]map[string]interface{}{}}
}

func (m *mockStore) handler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".json")
	m.Requests = append(m.Requests, r.Method+" "+path)
	m.Auth = append(m.Auth, r.Header.Get("Authorization"))

	if m.Fail != 0 {
		w.WriteHeader(m.Fail)
		w.Write([]byte(`{"error": "nope"}`))
		return
	}

	body, _ := io.ReadAll(r.Body)
	switch r.Method {
	case http.MethodGet:
		out := map[string]interface{}{}
		for key, doc := range m.Docs {
			if strings.HasPrefix(key, path+"/") {
				out[strings.TrimPrefix(key, path+"/")] = doc
			}
		}
		if len(out) == 0 {
			w.Write([]byte("null"))
			return
		}
		json.NewEncoder(w).Encode(out)
	case http.MethodPut:
		doc := map[string]interface{}{}
		json.Unmarshal(body, &doc)
		m.Docs[path] = doc
		w.Write(body)
	case http.MethodPatch:
		patch := map[string]interface{}{}
		json.Unmarshal(body, &patch)
		doc := m.Docs[path]
		if doc == nil {
			doc = map[string]interface{}{}
		}
		for k, v := range patch {
			if v == nil {
				delete(doc, k)
			} else {
				doc[k] = v
			}
		}
		m.Docs[path] = doc
		w.Write(body)
	case http.MethodDelete:
		delete(m.Docs, path)
		w.Write([]byte("null"))
	}
}

func storeFixture(t *testing.T) (*mockStore, *Client) {
	m := newMockStore()
	server := httptest.NewServer(http.HandlerFunc(m.handler))
	t.Cleanup(server.Close)

	c := NewClient(server.URL+"/", "s3cret")
	c.Limiter = rate.NewLimiter(rate.Inf, 1)
	return m, c
}

func TestPutAndGetStops(t *testing.T) {
	m, c := storeFixture(t)
	ctx := context.Background()

	stops := []model.Stop{
		{Code: "0512", Name: "Hervanta", Lat: 61.45, Lon: 23.85, Lines: []string{"3", "13"}, Municipality: "837", Zone: "B"},
		{Code: "0001", Name: "Keskustori", Lat: 61.4981, Lon: 23.7608, Direction: model.Dir("Keskusta"), Lines: []string{}, Zone: "A"},
	}
	for _, s := range stops {
		require.NoError(t, c.PutStop(ctx, s))
	}

	assert.Equal(t, map[string]interface{}{"3": true, "13": true}, m.Docs["stop/0512"]["lines"])
	assert.NotContains(t, m.Docs["stop/0512"], "direction")
	assert.Equal(t, "Bearer s3cret", m.Auth[0])

	got, err := c.Stops(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, stops[1].Equal(got[0]), got[0])
	assert.True(t, stops[0].Equal(got[1]), got[1])
}

func TestStopsEmpty(t *testing.T) {
	_, c := storeFixture(t)

	stops, err := c.Stops(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Stop{}, stops)
}

func TestStopsUsesKeyAsCode(t *testing.T) {
	m, c := storeFixture(t)
	m.Docs["stop/0042"] = map[string]interface{}{"name": "Pyynikki", "latitude": 61.49, "longitude": 23.73}

	stops, err := c.Stops(context.Background())
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "0042", stops[0].Code)
	assert.Equal(t, "Pyynikki", stops[0].Name)
	assert.Nil(t, stops[0].Direction)
}

func TestPutStopLocation(t *testing.T) {
	m, c := storeFixture(t)

	require.NoError(t, c.PutStopLocation(context.Background(), model.Stop{Code: "0001", Lat: 61.4981, Lon: 23.7608}))

	doc := m.Docs["stop_location/0001"]
	require.NotNil(t, doc)
	g, ok := doc["g"].(string)
	require.True(t, ok)
	assert.Len(t, g, GeohashPrecision)
	assert.Equal(t, map[string]interface{}{"0": 61.4981, "1": 23.7608}, doc["l"])
}

func TestPatchStop(t *testing.T) {
	m, c := storeFixture(t)
	ctx := context.Background()

	require.NoError(t, c.PutStop(ctx, model.Stop{
		Code: "0001", Name: "Keskustori", Direction: model.Dir("Keskusta"), Lines: []string{"1"},
	}))

	require.NoError(t, c.PatchStop(ctx, "0001", reconcile.Diff{
		{Field: model.FieldName, Old: "Keskustori", New: "Keskustori H"},
		{Field: model.FieldDirection, Old: "Keskusta", New: nil},
		{Field: model.FieldLines, Old: []string{"1"}, New: []string{"1", "2"}},
	}))

	doc := m.Docs["stop/0001"]
	assert.Equal(t, "Keskustori H", doc["name"])
	assert.NotContains(t, doc, "direction")
	assert.Equal(t, map[string]interface{}{"1": true, "2": true}, doc["lines"])

	// Empty diffs make no request.
	n := len(m.Requests)
	require.NoError(t, c.PatchStop(ctx, "0001", nil))
	assert.Len(t, m.Requests, n)
}

func TestApply(t *testing.T) {
	m, c := storeFixture(t)
	ctx := context.Background()

	current := []model.Stop{
		{Code: "0001", Name: "A", Lat: 61.0, Lon: 23.0},
		{Code: "0002", Name: "B", Lat: 61.1, Lon: 23.1},
		{Code: "0003", Name: "C", Lat: 61.2, Lon: 23.2},
	}
	fresh := []model.Stop{
		{Code: "0001", Name: "A", Lat: 61.0, Lon: 23.0},
		{Code: "0002", Name: "B", Lat: 61.15, Lon: 23.1},
		{Code: "0004", Name: "D", Lat: 61.3, Lon: 23.3},
	}
	result, err := reconcile.MergeStops(current, fresh)
	require.NoError(t, err)

	require.NoError(t, c.Apply(ctx, result))

	assert.Equal(t, []string{
		"DELETE stop/0003",
		"DELETE stop_location/0003",
		"PUT stop/0004",
		"PUT stop_location/0004",
		"PATCH stop/0002",
		"PUT stop_location/0002",
	}, m.Requests)
	assert.Equal(t, 61.15, m.Docs["stop/0002"]["latitude"])
}

func TestSeed(t *testing.T) {
	m, c := storeFixture(t)

	require.NoError(t, c.Seed(context.Background(), &model.Dataset{
		Stops: []model.Stop{{Code: "0001", Name: "A", Lat: 61, Lon: 23}},
		Lines: []model.Line{{Name: "3", Description: "Hervanta - Lentävänniemi"}},
	}))

	assert.Equal(t, []string{
		"PUT stop/0001",
		"PUT line/3",
		"PUT stop_location/0001",
	}, m.Requests)
	assert.Equal(t, "Hervanta - Lentävänniemi", m.Docs["line/3"]["description"])
}

func TestStatusError(t *testing.T) {
	m, c := storeFixture(t)
	m.Fail = http.StatusUnauthorized

	err := c.DeleteStop(context.Background(), "0001")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, http.MethodDelete, statusErr.Method)
}

func TestRateLimiterHonorsContext(t *testing.T) {
	_, c := storeFixture(t)
	c.Limiter = rate.NewLimiter(rate.Limit(0.001), 1)
	c.Limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.PutLine(ctx, model.Line{Name: "1"})
	assert.Error(t, err)
}
