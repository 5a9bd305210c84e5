package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"trend-intel/pkg/models"
)

// HTTPClient implements ContentProvider against the collection API.
type HTTPClient struct {
	client *http.Client
	logger *zap.Logger
	config *Config
}

// NewHTTPClient creates a new provider client.
func NewHTTPClient(httpClient *http.Client, config *Config, logger *zap.Logger) *HTTPClient {
	if config == nil {
		config = DefaultConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.RequestTimeout}
	}
	return &HTTPClient{
		client: httpClient,
		logger: logger,
		config: config,
	}
}

type searchRequest struct {
	Keywords           []string      `json:"keywords"`
	Period             models.Period `json:"period"`
	AnalysisDepth      string        `json:"analysis_depth"`
	IncludeFullContent bool          `json:"include_full_content"`
	SourcePriority     string        `json:"source_priority"`
	MinEngagement      int           `json:"min_engagement"`
	MaxItemsPerSource  int           `json:"max_items_per_source"`
	IncludeVideos      bool          `json:"include_videos"`
	VideoTranscription bool          `json:"video_transcription"`
}

type searchResponse struct {
	Items []models.RawItem `json:"items"`
}

// Search collects raw items for the given keywords. The request is
// bounded by the configured timeout on top of any caller deadline.
func (c *HTTPClient) Search(ctx context.Context, keywords []string, cfg models.ScrapeConfig) ([]models.RawItem, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	body, err := json.Marshal(searchRequest{
		Keywords:           keywords,
		Period:             cfg.Period,
		AnalysisDepth:      cfg.AnalysisDepth,
		IncludeFullContent: cfg.IncludeFullContent,
		SourcePriority:     cfg.SourcePriority,
		MinEngagement:      cfg.MinEngagement,
		MaxItemsPerSource:  cfg.MaxItemsPerSource,
		IncludeVideos:      cfg.IncludeVideos,
		VideoTranscription: cfg.VideoTranscription,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshalling search request: %w", err)
	}

	searchURL := c.config.BaseURL + "/v1/search"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating search request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("X-Api-Key", c.config.APIKey)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error doing search request: %w", err)
	}

	defer func() {
		if err := res.Body.Close(); err != nil {
			c.logger.Error("error closing search response body", zap.Error(err))
		}
	}()

	if res.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(res.Body)

		var apiErr APIError
		if err := json.Unmarshal(respBody, &apiErr); err != nil {
			return nil, fmt.Errorf("unexpected status %d and cannot parse error body: %s",
				res.StatusCode, string(respBody))
		}
		apiErr.StatusCode = res.StatusCode
		return nil, &apiErr
	}

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading search response body: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("error unmarshalling search response body: %w", err)
	}

	c.logger.Debug("provider search completed",
		zap.Int("keywords", len(keywords)),
		zap.Int("items", len(resp.Items)))

	return resp.Items, nil
}
