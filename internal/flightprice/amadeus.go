package flightprice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/tidwall/gjson"
)

var (
	errRateLimited = errors.New("rate limited")
	errNoOffers    = errors.New("no offers")
)

type AmadeusConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Currency     string
	CallTimeout  time.Duration
}

// AmadeusClient prices flights with the Amadeus Flight Offers Search API.
type AmadeusClient struct {
	cfg        AmadeusConfig
	httpClient *http.Client
	clock      clock.Clock

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type AmadeusOption func(*AmadeusClient)

func WithHTTPClient(c *http.Client) AmadeusOption {
	return func(a *AmadeusClient) {
		a.httpClient = c
	}
}

func WithClock(c clock.Clock) AmadeusOption {
	return func(a *AmadeusClient) {
		a.clock = c
	}
}

func NewAmadeusClient(cfg AmadeusConfig, opts ...AmadeusOption) *AmadeusClient {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 8 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	c := &AmadeusClient{
		cfg:        cfg,
		httpClient: &http.Client{},
		clock:      clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *AmadeusClient) QuotePrices(ctx context.Context, req QuoteRequest) ([]domain.FlightPriceQuote, error) {
	if err := req.Validate(clock.Today(c.clock)); err != nil {
		return nil, err
	}
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: amadeus credentials not configured", domain.ErrFlightProviderUnavailable)
	}

	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFlightProviderUnavailable, err)
	}

	quotes := make([]domain.FlightPriceQuote, 0, len(req.Destinations))
	transportFailures := 0
	for _, dest := range req.Destinations {
		quote, err := c.quoteOne(ctx, token, req, strings.ToUpper(strings.TrimSpace(dest)))
		if err != nil {
			if isTransportError(err) {
				transportFailures++
			}
			log.Printf("WARNING: flightprice: %s -> %s: %v", req.Origin, dest, err)
			continue
		}
		quotes = append(quotes, quote)
	}

	if len(quotes) == 0 && transportFailures == len(req.Destinations) {
		return nil, fmt.Errorf("%w: all %d lookups failed to connect", domain.ErrFlightProviderUnavailable, transportFailures)
	}
	return quotes, nil
}

func (c *AmadeusClient) quoteOne(ctx context.Context, token string, req QuoteRequest, dest string) (domain.FlightPriceQuote, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("originLocationCode", strings.ToUpper(req.Origin))
	q.Set("destinationLocationCode", dest)
	q.Set("departureDate", req.DepartDate.Format(dateLayout))
	if req.ReturnDate != nil {
		q.Set("returnDate", req.ReturnDate.Format(dateLayout))
	}
	q.Set("adults", strconv.Itoa(req.Travelers))
	q.Set("currencyCode", c.cfg.Currency)
	q.Set("max", "10")

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.cfg.BaseURL+"/v2/shopping/flight-offers?"+q.Encode(), nil)
	if err != nil {
		return domain.FlightPriceQuote{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.FlightPriceQuote{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.FlightPriceQuote{}, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.FlightPriceQuote{}, errRateLimited
	case resp.StatusCode == http.StatusUnauthorized:
		c.invalidateToken()
		return domain.FlightPriceQuote{}, fmt.Errorf("amadeus rejected token (%d)", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.FlightPriceQuote{}, fmt.Errorf("amadeus error (%d): %s", resp.StatusCode, gjson.GetBytes(body, "errors.0.detail").String())
	}

	price, currency, offers, err := averageOfferPrice(body, req.Travelers)
	if err != nil {
		return domain.FlightPriceQuote{}, err
	}
	if currency == "" {
		currency = c.cfg.Currency
	}

	return domain.FlightPriceQuote{
		AirportCode: dest,
		PriceCents:  price,
		Currency:    currency,
		DepartDate:  req.DepartDate,
		ReturnDate:  req.ReturnDate,
		Travelers:   req.Travelers,
		Offers:      offers,
	}, nil
}

// averageOfferPrice returns the mean per-person grand total in cents.
func averageOfferPrice(body []byte, travelers int) (int64, string, int, error) {
	if !gjson.ValidBytes(body) {
		return 0, "", 0, errors.New("malformed offers response")
	}

	var total float64
	offers := 0
	gjson.GetBytes(body, "data.#.price.grandTotal").ForEach(func(_, v gjson.Result) bool {
		amount, err := strconv.ParseFloat(v.String(), 64)
		if err == nil && amount > 0 {
			total += amount
			offers++
		}
		return true
	})
	if offers == 0 {
		return 0, "", 0, errNoOffers
	}

	perPerson := total / float64(offers) / float64(travelers)
	currency := gjson.GetBytes(body, "data.0.price.currency").String()
	return int64(math.Round(perPerson * 100)), currency, offers, nil
}

func (c *AmadeusClient) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.clock.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.cfg.BaseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed (%d)", resp.StatusCode)
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", errors.New("token response without access_token")
	}
	expiresIn := gjson.GetBytes(body, "expires_in").Int()

	c.accessToken = token
	c.tokenExpiry = c.clock.Now().Add(time.Duration(expiresIn-30) * time.Second)
	return token, nil
}

func (c *AmadeusClient) invalidateToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

// isTransportError reports connection-level failures. Timeouts count as a
// failure of the single lookup, not of the provider.
func isTransportError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return !urlErr.Timeout()
	}
	return false
}

var _ Provider = (*AmadeusClient)(nil)
