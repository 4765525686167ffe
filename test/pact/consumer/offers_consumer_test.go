//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Simon-Kral/Coderr/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type offerDetailPayload struct {
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              float64  `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

type offerPayload struct {
	ID              int64                `json:"id"`
	User            int64                `json:"user"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Details         []offerDetailPayload `json:"details"`
	MinPrice        float64              `json:"min_price"`
	MinDeliveryTime int                  `json:"min_delivery_time"`
}

type baseInfoPayload struct {
	ReviewCount          int64   `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	BusinessProfileCount int64   `json:"business_profile_count"`
	OfferCount           int64   `json:"offer_count"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestOffersContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	detailMatcher := matchers.Map{
		"title":                 matchers.Like("Basic"),
		"revisions":             matchers.Like(1),
		"delivery_time_in_days": matchers.Like(5),
		"price":                 matchers.Like(100.0),
		"features":              matchers.ArrayMinLike("Logo", 1),
		"offer_type":            matchers.Term("basic", "basic|standard|premium"),
	}
	offerBodyMatcher := matchers.Map{
		"id":                matchers.Like(pacttest.ExistingOfferID),
		"user":              matchers.Like(1),
		"title":             matchers.Like("Brand relaunch package"),
		"description":       matchers.Like("Logo, flyer and web design in one bundle"),
		"details":           matchers.ArrayMinLike(detailMatcher, 3),
		"min_price":         matchers.Like(100.0),
		"min_delivery_time": matchers.Like(5),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	tokenHeader := matchers.S("Token " + pacttest.BusinessToken)

	pact.AddInteraction().
		Given(pacttest.StateBusinessSession).
		UponReceiving("a request to publish a three tier offer").
		WithRequest("POST", "/api/offers/", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", tokenHeader)
			b.JSONBody(pacttest.ExampleOfferPayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(offerBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateOfferExists).
		UponReceiving("a request to fetch an existing offer").
		WithRequest("GET", fmt.Sprintf("/api/offers/%d/", pacttest.ExistingOfferID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(offerBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateOfferMissing).
		UponReceiving("a request for a missing offer").
		WithRequest("GET", fmt.Sprintf("/api/offers/%d/", pacttest.MissingOfferID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePlatformStats).
		UponReceiving("a request for platform base info").
		WithRequest("GET", "/api/base-info/").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"review_count":           matchers.Like(0),
				"average_rating":         matchers.Like(0.0),
				"business_profile_count": matchers.Like(1),
				"offer_count":            matchers.Like(1),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOffersClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreateOffer(ctx, pacttest.ExampleOfferPayload())
		if err != nil {
			return fmt.Errorf("create offer: %w", err)
		}
		if created == nil || created.ID == 0 {
			return fmt.Errorf("expected created offer ID to be set")
		}
		if len(created.Details) < 3 {
			return fmt.Errorf("expected three pricing packages, got %d", len(created.Details))
		}

		fetched, err := client.GetOffer(ctx, pacttest.ExistingOfferID)
		if err != nil {
			return fmt.Errorf("get offer: %w", err)
		}
		if fetched == nil || fetched.ID != pacttest.ExistingOfferID {
			return fmt.Errorf("expected offer id %d, got %+v", pacttest.ExistingOfferID, fetched)
		}

		if _, err := client.GetOffer(ctx, pacttest.MissingOfferID); err == nil {
			return fmt.Errorf("expected 404 for offer %d", pacttest.MissingOfferID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		info, err := client.BaseInfo(ctx)
		if err != nil {
			return fmt.Errorf("base info: %w", err)
		}
		if info.BusinessProfileCount < 1 {
			return fmt.Errorf("expected at least one business profile, got %d", info.BusinessProfileCount)
		}

		return nil
	})
	require.NoError(t, err)
}

type offersClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOffersClient(config pactconsumer.MockServerConfig) *offersClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &offersClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *offersClient) CreateOffer(ctx context.Context, payload map[string]any) (*offerPayload, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/offers/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+pacttest.BusinessToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var offer offerPayload
	if err := json.NewDecoder(res.Body).Decode(&offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (c *offersClient) GetOffer(ctx context.Context, id int64) (*offerPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/offers/%d/", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var offer offerPayload
	if err := json.NewDecoder(res.Body).Decode(&offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (c *offersClient) BaseInfo(ctx context.Context) (*baseInfoPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/base-info/", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var info baseInfoPayload
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
