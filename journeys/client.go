package journeys

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tresjolie.dev/transit/downloader"
	"tresjolie.dev/transit/geo"
	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

const (
	DefaultBaseURL = "https://data.itsfactory.fi/journeys/api/1/"

	EndpointStopPoints = "stop-points"
	EndpointLines      = "lines"
)

// Client for the Journeys API.
type Client struct {
	BaseURL    string
	Headers    map[string]string
	Downloader downloader.Downloader
	Options    downloader.GetOptions
	Logger     *slog.Logger
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		Headers:    map[string]string{},
		Downloader: downloader.Direct{},
		Options: downloader.GetOptions{
			Timeout: downloader.DefaultTimeout,
		},
		Logger: slog.Default().With(slog.String("component", "journeys")),
	}
}

type stopPointJSON struct {
	URL          string `json:"url"`
	Location     string `json:"location"`
	Name         string `json:"name"`
	ShortName    string `json:"shortName"`
	TariffZone   string `json:"tariffZone"`
	Municipality *struct {
		ShortName string `json:"shortName"`
		Name      string `json:"name"`
	} `json:"municipality"`
}

type lineJSON struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// All stop points. Lines and direction are left empty.
func (c *Client) StopPoints(ctx context.Context) ([]model.Stop, error) {
	return c.stopPoints(ctx, nil)
}

// Stop points within the box given by its SW and NE corners.
func (c *Client) StopPointsInBounds(ctx context.Context, sw, ne geo.Point) ([]model.Stop, error) {
	location := fmt.Sprintf("%.5f,%.5f:%.5f,%.5f", sw.Lat, sw.Lon, ne.Lat, ne.Lon)
	return c.stopPoints(ctx, url.Values{"location": {location}})
}

func (c *Client) stopPoints(ctx context.Context, params url.Values) ([]model.Stop, error) {
	raw := []stopPointJSON{}
	if err := c.get(ctx, EndpointStopPoints, params, &raw); err != nil {
		return nil, fmt.Errorf("getting stop points: %w", err)
	}

	stops := make([]model.Stop, 0, len(raw))
	for i, sp := range raw {
		stop, err := sp.toStop(i)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	c.Logger.Info("loaded stop points", slog.Int("count", len(stops)))

	return stops, nil
}

func (sp stopPointJSON) toStop(i int) (model.Stop, error) {
	missing := func(field string) error {
		return &reconcile.MissingFieldError{Set: EndpointStopPoints, Index: i, Code: sp.ShortName, Field: field}
	}

	if sp.ShortName == "" {
		return model.Stop{}, missing("code")
	}
	if sp.Name == "" {
		return model.Stop{}, missing("name")
	}
	if strings.TrimSpace(sp.Location) == "" {
		return model.Stop{}, missing("location")
	}

	lat, lon, err := parseLocation(sp.Location)
	if err != nil {
		return model.Stop{}, fmt.Errorf("stop point '%s': %w", sp.ShortName, err)
	}

	stop := model.Stop{
		Code:  sp.ShortName,
		Name:  sp.Name,
		Lat:   lat,
		Lon:   lon,
		Lines: []string{},
		Zone:  sp.TariffZone,
	}
	if sp.Municipality != nil {
		stop.Municipality = sp.Municipality.ShortName
	}

	return stop, nil
}

// Parses "lat,lon".
func parseLocation(location string) (float64, float64, error) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed location '%s'", location)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing longitude: %w", err)
	}
	for _, f := range []float64{lat, lon} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, 0, fmt.Errorf("malformed location '%s'", location)
		}
	}
	return lat, lon, nil
}

// All lines.
func (c *Client) Lines(ctx context.Context) ([]model.Line, error) {
	return c.lines(ctx, nil)
}

// Lines serving the stop with the given code.
func (c *Client) LinesForStop(ctx context.Context, code string) ([]model.Line, error) {
	lines, err := c.lines(ctx, url.Values{"stopPointId": {code}})
	if err != nil {
		return nil, fmt.Errorf("stop '%s': %w", code, err)
	}
	return lines, nil
}

func (c *Client) lines(ctx context.Context, params url.Values) ([]model.Line, error) {
	raw := []lineJSON{}
	if err := c.get(ctx, EndpointLines, params, &raw); err != nil {
		return nil, fmt.Errorf("getting lines: %w", err)
	}

	lines := make([]model.Line, 0, len(raw))
	for i, l := range raw {
		if l.Name == "" {
			return nil, fmt.Errorf("line %d has no name", i)
		}
		lines = append(lines, model.Line{Name: l.Name, Description: l.Description})
	}

	return lines, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	u, err := c.endpointURL(endpoint, params)
	if err != nil {
		return err
	}

	start := time.Now()
	buf, err := c.Downloader.Get(ctx, u, c.Headers, c.Options)
	if err != nil {
		return err
	}
	c.Logger.Debug("fetched",
		slog.String("url", u),
		slog.Int("bytes", len(buf)),
		slog.Duration("elapsed", time.Since(start)))

	return decodeJSend(buf, out)
}

func (c *Client) endpointURL(endpoint string, params url.Values) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	u := base.ResolveReference(&url.URL{Path: endpoint})
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String(), nil
}
