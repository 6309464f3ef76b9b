package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultRatesURL is the TonAPI endpoint returning the price of 1 TON in
// every fiat currency the deposit flow supports.
const DefaultRatesURL = "https://tonapi.io/v2/rates?tokens=ton&currencies=usd,rub,uah,pln,kzt,eur"

// Clock abstracts time for the cache window so tests can inject a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// RatesService fetches TON→fiat rates and caches them for a fixed window.
// The cache is owned by the instance, not a package global, and is
// invalidated only by expiry.
type RatesService struct {
	httpClient *http.Client
	url        string
	clock      Clock
	ttl        time.Duration

	mu        sync.Mutex
	cached    map[string]float64
	fetchedAt time.Time
}

// NewRatesService creates a RatesService with a 60s cache window.
func NewRatesService(url string, clock Clock) *RatesService {
	if url == "" {
		url = DefaultRatesURL
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &RatesService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		url:   url,
		clock: clock,
		ttl:   60 * time.Second,
	}
}

// Rates returns the current price of 1 TON per fiat currency, serving the
// cached value inside the window.
func (s *RatesService) Rates(ctx context.Context) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.clock.Now().Sub(s.fetchedAt) < s.ttl {
		return s.cached, nil
	}

	prices, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.cached = prices
	s.fetchedAt = s.clock.Now()
	return prices, nil
}

func (s *RatesService) fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch TON rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rates API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Rates struct {
			TON struct {
				Prices map[string]float64 `json:"prices"`
			} `json:"TON"`
		} `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(parsed.Rates.TON.Prices) == 0 {
		return nil, fmt.Errorf("rates response carried no TON prices")
	}

	prices := make(map[string]float64, len(parsed.Rates.TON.Prices))
	for currency, price := range parsed.Rates.TON.Prices {
		prices[strings.ToUpper(currency)] = price
	}

	return prices, nil
}

// FiatToTon converts a fiat amount to TON. ratePerTon is the price of 1 TON
// in that currency.
func FiatToTon(amountFiat, ratePerTon float64) float64 {
	if ratePerTon <= 0 {
		return 0
	}
	return amountFiat / ratePerTon
}

// TonToFiat converts a TON amount to fiat.
func TonToFiat(amountTon, ratePerTon float64) float64 {
	return amountTon * ratePerTon
}
