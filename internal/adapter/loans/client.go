package loans

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/lendtrak/incentive/internal/domain/errors"
	"github.com/lendtrak/incentive/internal/domain/model"
)

// RateLimitedError represents a throttling signal from the loan subsystem.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("loan source rate limited, retry after %s", e.RetryAfter)
}

// Client exposes the read-only loan fact query this engine consumes.
type Client interface {
	ListByCSO(ctx context.Context, csoID int64, from, to time.Time) ([]model.LoanFact, error)
}

// HTTPClient implements Client against the loan subsystem's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// loanFact mirrors the JSON payload served by the loan subsystem.
type loanFact struct {
	LoanID             string          `json:"loan_id"`
	CSOID              int64           `json:"cso_id"`
	DisbursedAt        time.Time       `json:"disbursed_at"`
	DisbursedAmount    decimal.Decimal `json:"disbursed_amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Status             string          `json:"status"`
}

// NewHTTPClient creates the loan fact client with a default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse loan service url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("loan service url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// ListByCSO fetches the CSO's loan facts, optionally bounded by a
// disbursement date range. Zero-valued bounds mean unbounded.
func (c *HTTPClient) ListByCSO(ctx context.Context, csoID int64, from, to time.Time) ([]model.LoanFact, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/csos/", strconv.FormatInt(csoID, 10), "/loans")

	query := endpoint.Query()
	if !from.IsZero() {
		query.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		query.Set("to", to.UTC().Format(time.RFC3339))
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrLoanSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data []loanFact
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		facts := make([]model.LoanFact, 0, len(data))
		for _, f := range data {
			facts = append(facts, model.LoanFact{
				LoanID:             f.LoanID,
				CSOID:              f.CSOID,
				DisbursedAt:        f.DisbursedAt,
				DisbursedAmount:    f.DisbursedAmount,
				OutstandingBalance: f.OutstandingBalance,
				Status:             model.LoanStatus(f.Status),
			})
		}
		return facts, nil
	case http.StatusNoContent:
		return nil, nil
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, RateLimitedError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("loan fact request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrLoanSourceUnavailable, resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
