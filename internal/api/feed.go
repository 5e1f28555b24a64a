package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itsvladii/owcs-nexus-sub000/internal/config"
	"github.com/itsvladii/owcs-nexus-sub000/internal/constants"
	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"

	"github.com/valyala/fasthttp"
)

// FeedClient pulls raw match records from the upstream esports data feed.
type FeedClient struct {
	baseURL string
	apiKey  string
	client  *fasthttp.Client
}

type feedOpponent struct {
	Name     string `json:"name"`
	Score    *int   `json:"score"`
	Logo     string `json:"logo"`
	LogoDark string `json:"logo_dark"`
}

type feedMatch struct {
	Opponent1  feedOpponent `json:"opponent1"`
	Opponent2  feedOpponent `json:"opponent2"`
	Winner     string       `json:"winner"`
	Tournament string       `json:"tournament"`
	Date       string       `json:"date"`
}

type matchesResponse struct {
	Data    []feedMatch `json:"data"`
	HasMore bool        `json:"has_more"`
}

func NewFeedClient(cfg *config.Config) *FeedClient {
	return &FeedClient{
		baseURL: cfg.FeedBaseURL,
		apiKey:  cfg.FeedAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.FeedAPITimeout,
			WriteTimeout:        constants.FeedAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// GetMatchPage fetches one page of match records. hasMore tells the caller
// whether another page follows.
func (c *FeedClient) GetMatchPage(ctx context.Context, page int) ([]domain.Match, bool, error) {
	url := fmt.Sprintf("%s/matches?page=%d&page_size=%d", c.baseURL, page, constants.FeedPageSize)

	resp, err := doRequest[matchesResponse](ctx, c, url)
	if err != nil {
		return nil, false, err
	}

	matches := make([]domain.Match, 0, len(resp.Data))
	for _, fm := range resp.Data {
		matches = append(matches, domain.Match{
			Opponent1:  domain.Opponent(fm.Opponent1),
			Opponent2:  domain.Opponent(fm.Opponent2),
			Winner:     fm.Winner,
			Tournament: fm.Tournament,
			Date:       fm.Date,
		})
	}
	return matches, resp.HasMore, nil
}

func doRequest[T any](ctx context.Context, client *FeedClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", client.apiKey)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.FeedAPITimeout)
	}
	if err := client.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("feed returned status %d for %s", resp.StatusCode(), url)
	}

	var out T
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}
	return &out, nil
}
