// Package youtube fetches candidate workout videos from the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"
	watchURL       = "https://www.youtube.com/watch?v="
)

// SearchSpec describes the searches issued for every channel
type SearchSpec struct {
	Queries       []string
	MaxResults    int
	VideoDuration string
}

// SpecFromConfig builds one query per included category from its keywords
func SpecFromConfig(cfg *models.InputConfig) SearchSpec {
	spec := SearchSpec{MaxResults: cfg.Search.MaxResults, VideoDuration: cfg.Search.VideoDuration}
	seen := make(map[string]bool)
	for _, cat := range cfg.IncludedCategories() {
		var words []string
		for _, k := range cat.Keywords {
			if k = strings.TrimSpace(k); k != "" {
				words = append(words, k)
			}
		}
		q := strings.Join(words, " ")
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		spec.Queries = append(spec.Queries, q)
	}
	return spec
}

// Client is a minimal YouTube Data API client
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Retry      RetryConfig
	// Breaker is optional; nil disables it
	Breaker    *gobreaker.CircuitBreaker[any]
}

// NewClient creates a client paced at ten requests per second behind a circuit breaker
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Limiter:    rate.NewLimiter(rate.Limit(10), 5),
		Retry:      DefaultRetryConfig,
		Breaker:    newBreaker(),
	}
}

type thumbnailRef struct {
	URL string `json:"url"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title      string                  `json:"title"`
			ChannelID  string                  `json:"channelId"`
			Thumbnails map[string]thumbnailRef `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// FetchChannel runs every query of spec against one channel and returns the merged videos,
// newest first per query and deduplicated by ID. When only some queries fail the videos of
// the successful ones are returned together with the error.
func (c *Client) FetchChannel(ctx context.Context, channelID string, spec SearchSpec) ([]models.Video, error) {
	var (
		videos []models.Video
		errs   []error
		seen   = make(map[string]bool)
	)
	for _, q := range spec.Queries {
		found, err := c.search(ctx, channelID, q, spec)
		if err != nil {
			logging.Error().Err(err).Str("channel", channelID).Str("query", q).Msg("youtube search failed")
			errs = append(errs, fmt.Errorf("query %q: %w", q, err))
			continue
		}
		for _, v := range found {
			if seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			videos = append(videos, v)
		}
	}

	logging.Info().Str("channel", channelID).Int("videos", len(videos)).Msg("fetched channel videos")
	return videos, errors.Join(errs...)
}

func (c *Client) search(ctx context.Context, channelID, query string, spec SearchSpec) ([]models.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("order", "date")
	if spec.MaxResults > 0 {
		params.Set("maxResults", strconv.Itoa(spec.MaxResults))
	}
	if spec.VideoDuration != "" {
		params.Set("videoDuration", spec.VideoDuration)
	}

	var sr searchResponse
	if err := c.get(ctx, "/search", params, &sr); err != nil {
		return nil, err
	}

	var ids []string
	for _, item := range sr.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	durations, err := c.durations(ctx, ids)
	if err != nil {
		// keep the videos; they just cannot be budgeted precisely
		logging.Warn().Err(err).Str("channel", channelID).Msg("fetching video details failed")
		durations = map[string]float64{}
	}

	videos := make([]models.Video, 0, len(ids))
	for _, item := range sr.Items {
		id := item.ID.VideoID
		if id == "" {
			continue
		}
		ch := item.Snippet.ChannelID
		if ch == "" {
			ch = channelID
		}
		videos = append(videos, models.Video{
			ID:              id,
			Title:           item.Snippet.Title,
			DurationMinutes: durations[id],
			ChannelID:       ch,
			Thumbnail:       thumbnail(item.Snippet.Thumbnails),
			Link:            watchURL + id,
		})
	}
	return videos, nil
}

func (c *Client) durations(ctx context.Context, ids []string) (map[string]float64, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var vr videosResponse
	if err := c.get(ctx, "/videos", params, &vr); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(vr.Items))
	for _, item := range vr.Items {
		minutes, err := ParseDuration(item.ContentDetails.Duration)
		if err != nil {
			logging.Debug().Err(err).Str("video", item.ID).Msg("unparseable duration")
		}
		out[item.ID] = minutes
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.Breaker == nil {
		return c.call(ctx, path, params, out)
	}
	_, err := c.Breaker.Execute(func() (any, error) {
		return nil, c.call(ctx, path, params, out)
	})
	return err
}

func (c *Client) call(ctx context.Context, path string, params url.Values, out any) error {
	if c.APIKey != "" {
		params.Set("key", c.APIKey)
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + path + "?" + params.Encode()

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return err
		}
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := retryHTTP(ctx, c.Retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return httpClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("youtube %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("youtube %s %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube %s: %w", path, err)
	}
	return nil
}

func thumbnail(thumbs map[string]thumbnailRef) string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}
