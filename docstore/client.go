// Package docstore pushes stops and lines into a Firebase style
// realtime database over its REST interface.
//
// Documents live under /stop/<code>, /line/<name> and
// /stop_location/<code>. The latter holds a geohash and coordinates in
// the layout GeoFire expects.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"
	"golang.org/x/time/rate"

	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

const (
	DefaultRatePerSecond = 10
	DefaultBurst         = 1
	DefaultTimeout       = 30 * time.Second

	// Matches the GeoFire default.
	GeohashPrecision = 10
)

// Non-2xx response from the store.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

type Client struct {
	// Database root, e.g. https://example.firebaseio.com
	BaseURL string

	// Bearer token. Obtaining it is up to the caller.
	Token string

	HTTP    *http.Client
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		Limiter: rate.NewLimiter(rate.Limit(DefaultRatePerSecond), DefaultBurst),
		Logger:  slog.Default().With(slog.String("component", "docstore")),
	}
}

type stopDoc struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Direction    *string         `json:"direction,omitempty"`
	Lines        map[string]bool `json:"lines,omitempty"`
	Municipality string          `json:"municipality"`
	Zone         string          `json:"zone"`
}

type lineDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type locationDoc struct {
	Geohash  string             `json:"g"`
	Location map[string]float64 `json:"l"`
}

func newStopDoc(stop model.Stop) stopDoc {
	return stopDoc{
		Code:         stop.Code,
		Name:         stop.Name,
		Latitude:     stop.Lat,
		Longitude:    stop.Lon,
		Direction:    stop.Direction,
		Lines:        linesDoc(stop.Lines),
		Municipality: stop.Municipality,
		Zone:         stop.Zone,
	}
}

// Lines are stored as a set, {"1": true, "3": true}.
func linesDoc(lines []string) map[string]bool {
	if len(lines) == 0 {
		return nil
	}
	doc := make(map[string]bool, len(lines))
	for _, l := range lines {
		doc[l] = true
	}
	return doc
}

func (d stopDoc) toStop() model.Stop {
	lines := make([]string, 0, len(d.Lines))
	for l, present := range d.Lines {
		if present {
			lines = append(lines, l)
		}
	}
	reconcile.SortNatural(lines)

	return model.Stop{
		Code:         d.Code,
		Name:         d.Name,
		Lat:          d.Latitude,
		Lon:          d.Longitude,
		Direction:    d.Direction,
		Lines:        lines,
		Municipality: d.Municipality,
		Zone:         d.Zone,
	}
}

func newLocationDoc(stop model.Stop) locationDoc {
	return locationDoc{
		Geohash:  geohash.EncodeWithPrecision(stop.Lat, stop.Lon, GeohashPrecision),
		Location: map[string]float64{"0": stop.Lat, "1": stop.Lon},
	}
}

// All stops in the store, ordered by code. The store keys stops by
// code; a document lacking its own code gets the key.
func (c *Client) Stops(ctx context.Context) ([]model.Stop, error) {
	docs := map[string]*stopDoc{}
	if err := c.do(ctx, http.MethodGet, "stop", nil, &docs); err != nil {
		return nil, fmt.Errorf("getting stops: %w", err)
	}

	stops := make([]model.Stop, 0, len(docs))
	for key, doc := range docs {
		if doc == nil {
			continue
		}
		if doc.Code == "" {
			doc.Code = key
		}
		stops = append(stops, doc.toStop())
	}
	sortStops(stops)

	return stops, nil
}

func (c *Client) PutStop(ctx context.Context, stop model.Stop) error {
	return c.do(ctx, http.MethodPut, "stop/"+stop.Code, newStopDoc(stop), nil)
}

// Updates only the changed fields of a stop. A direction changing to
// unknown is written as null, which removes it.
func (c *Client) PatchStop(ctx context.Context, code string, diff reconcile.Diff) error {
	if len(diff) == 0 {
		return nil
	}

	patch := map[string]interface{}{}
	for _, change := range diff {
		switch change.Field {
		case model.FieldLines:
			lines, _ := change.New.([]string)
			if doc := linesDoc(lines); doc != nil {
				patch["lines"] = doc
			} else {
				patch["lines"] = nil
			}
		default:
			patch[change.Field.String()] = change.New
		}
	}

	return c.do(ctx, http.MethodPatch, "stop/"+code, patch, nil)
}

func (c *Client) DeleteStop(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodDelete, "stop/"+code, nil, nil)
}

func (c *Client) PutLine(ctx context.Context, line model.Line) error {
	return c.do(ctx, http.MethodPut, "line/"+line.Name, lineDoc{Name: line.Name, Description: line.Description}, nil)
}

func (c *Client) PutStopLocation(ctx context.Context, stop model.Stop) error {
	return c.do(ctx, http.MethodPut, "stop_location/"+stop.Code, newLocationDoc(stop), nil)
}

func (c *Client) DeleteStopLocation(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodDelete, "stop_location/"+code, nil, nil)
}

// Populates the store with a whole dataset: stops, lines and stop
// locations.
func (c *Client) Seed(ctx context.Context, dataset *model.Dataset) error {
	for _, stop := range dataset.Stops {
		if err := c.PutStop(ctx, stop); err != nil {
			return fmt.Errorf("putting stop '%s': %w", stop.Code, err)
		}
	}
	for _, line := range dataset.Lines {
		if err := c.PutLine(ctx, line); err != nil {
			return fmt.Errorf("putting line '%s': %w", line.Name, err)
		}
	}
	for _, stop := range dataset.Stops {
		if err := c.PutStopLocation(ctx, stop); err != nil {
			return fmt.Errorf("putting location of stop '%s': %w", stop.Code, err)
		}
	}

	c.Logger.Info("seeded",
		slog.Int("stops", len(dataset.Stops)),
		slog.Int("lines", len(dataset.Lines)))

	return nil
}

// Makes the store match a reconciliation result: removed stops are
// deleted, added stops put and changed stops patched. Locations follow
// their stops.
func (c *Client) Apply(ctx context.Context, result *reconcile.Result) error {
	for _, code := range result.Removed {
		if err := c.DeleteStop(ctx, code); err != nil {
			return fmt.Errorf("deleting stop '%s': %w", code, err)
		}
		if err := c.DeleteStopLocation(ctx, code); err != nil {
			return fmt.Errorf("deleting location of stop '%s': %w", code, err)
		}
	}

	for _, code := range result.Added {
		stop, _ := result.Merged.Get(code)
		if err := c.PutStop(ctx, stop); err != nil {
			return fmt.Errorf("putting stop '%s': %w", code, err)
		}
		if err := c.PutStopLocation(ctx, stop); err != nil {
			return fmt.Errorf("putting location of stop '%s': %w", code, err)
		}
	}

	for _, code := range result.Changed() {
		diff := result.Differences[code]
		if err := c.PatchStop(ctx, code, diff); err != nil {
			return fmt.Errorf("patching stop '%s': %w", code, err)
		}
		if movedStop(diff) {
			stop, _ := result.Merged.Get(code)
			if err := c.PutStopLocation(ctx, stop); err != nil {
				return fmt.Errorf("putting location of stop '%s': %w", code, err)
			}
		}
	}

	c.Logger.Info("applied",
		slog.Int("removed", len(result.Removed)),
		slog.Int("added", len(result.Added)),
		slog.Int("changed", len(result.Differences)))

	return nil
}

func movedStop(diff reconcile.Diff) bool {
	for _, change := range diff {
		if change.Field == model.FieldLat || change.Field == model.FieldLon {
			return true
		}
	}
	return false
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	u := c.BaseURL + "/" + escapePath(path) + ".json"

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}

	c.Logger.Debug("request",
		slog.String("method", method),
		slog.String("url", u),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, URL: u, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 && string(respBody) != "null" {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func escapePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
