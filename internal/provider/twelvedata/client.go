package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/provider"
)

// Client fetches daily price series from the Twelve Data API.
// One request per ticker; responses are merged onto the union calendar.
type Client struct {
	cfg    Config
	client *http.Client
}

// Compile-time interface check.
var _ provider.Provider = (*Client)(nil)

// NewClient creates a new Client. A nil httpClient gets a default with the
// configured timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, client: httpClient}
}

// FetchDaily retrieves up to lookbackDays daily observations per ticker.
// A ticker the API reports as unknown is omitted from the table; any other
// failure aborts the whole fetch.
func (c *Client) FetchDaily(ctx context.Context, tickers []string, lookbackDays int) (*domain.RawSeriesTable, error) {
	perTicker := make(map[string][]domain.Observation, len(tickers))

	for _, ticker := range tickers {
		obs, found, err := c.fetchTicker(ctx, ticker, lookbackDays)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ticker, err)
		}
		if !found {
			continue
		}
		perTicker[ticker] = obs
	}

	return domain.BuildRawSeriesTable(perTicker), nil
}

// fetchTicker requests one ticker's daily series. found is false when the API
// does not cover the symbol.
func (c *Client) fetchTicker(ctx context.Context, ticker string, lookbackDays int) ([]domain.Observation, bool, error) {
	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("interval", "1day")
	q.Set("outputsize", strconv.Itoa(lookbackDays))
	q.Set("apikey", c.cfg.APIKey)

	u := fmt.Sprintf("%s/time_series?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, false, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body timeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, false, err
	}
	if body.Status == "error" {
		// 400/404 mark a symbol the API does not know; the ticker is
		// treated as absent rather than failing the batch.
		if body.Code == http.StatusBadRequest || body.Code == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("twelvedata: %s", body.Message)
	}

	obs := make([]domain.Observation, 0, len(body.Values))
	for _, v := range body.Values {
		o, err := parseValue(v)
		if err != nil {
			return nil, false, err
		}
		obs = append(obs, o)
	}

	// API returns newest first; the pipeline wants dates ascending.
	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })

	return obs, len(obs) > 0, nil
}

// parseValue converts one API bar into a domain observation.
// Absent numeric fields become NaN for the cleaner to fill.
func parseValue(v timeSeriesValue) (domain.Observation, error) {
	date, err := time.ParseInLocation("2006-01-02", v.Datetime, time.UTC)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("parse datetime %q: %w", v.Datetime, err)
	}

	o := domain.Observation{Date: date}
	if o.Open, err = parseFloat(v.Open); err != nil {
		return domain.Observation{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	if o.High, err = parseFloat(v.High); err != nil {
		return domain.Observation{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	if o.Low, err = parseFloat(v.Low); err != nil {
		return domain.Observation{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	if o.Close, err = parseFloat(v.Close); err != nil {
		return domain.Observation{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}
	if o.Volume, err = parseFloat(v.Volume); err != nil {
		return domain.Observation{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
	}
	return o, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
