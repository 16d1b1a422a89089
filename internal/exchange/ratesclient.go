package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/pkg/cachepkg"
)

// RatesClient implements Exchanger over an external exchange rates API with
// an explicit per-pair rate cache.
type RatesClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	cache   cachepkg.Cache
	ttl     time.Duration
}

// NewRatesClient returns a RatesClient caching rates for the given ttl.
func NewRatesClient(baseURL, apiKey string, cache cachepkg.Cache, ttl time.Duration) *RatesClient {
	return &RatesClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   cache,
		ttl:     ttl,
	}
}

// ratesResponse is the payload returned by the rates API.
type ratesResponse struct {
	Data map[string]decimal.Decimal `json:"data"`
}

// Exchange converts amount from one currency to another using the latest
// known rate. Same-currency conversion is the identity. Any transport,
// decoding or missing-rate failure surfaces as ExchangeUnavailable.
func (c *RatesClient) Exchange(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	rate, err := c.rate(ctx, from, to)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("from", from).
			Str("to", to).
			Msg("exchange rate lookup failed")

		return decimal.Decimal{}, domain.ErrExchangeUnavailable(from, to)
	}

	return amount.Mul(rate), nil
}

func cacheKey(from, to string) string {
	return "rates:" + from + ":" + to
}

func (c *RatesClient) rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	cached, err := c.cache.Get(ctx, cacheKey(from, to))
	if err == nil {
		return decimal.NewFromString(cached)
	}

	if !errors.Is(err, cachepkg.ErrMiss) {
		// A broken cache must not take the exchanger down with it.
		zerolog.Ctx(ctx).Warn().Err(err).Msg("rates cache read failed")
	}

	rate, err := c.fetch(ctx, from, to)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := c.cache.Put(ctx, cacheKey(from, to), rate.String(), c.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("rates cache write failed")
	}

	return rate, nil
}

func (c *RatesClient) fetch(ctx context.Context, from, to string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("apikey", c.apiKey)
	query.Set("base_currency", from)
	query.Set("currencies", to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/latest?"+query.Encode(), nil)
	if err != nil {
		return decimal.Decimal{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("rates api returned status %d", resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Decimal{}, err
	}

	rate, ok := payload.Data[to]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("rates api response is missing rate for %s", to)
	}

	return rate, nil
}
