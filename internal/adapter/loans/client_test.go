package loans

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/lendtrak/incentive/internal/domain/errors"
	"github.com/lendtrak/incentive/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestListByCSOParsesFacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/csos/7/loans" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("from") == "" || r.URL.Query().Get("to") == "" {
			t.Errorf("expected date range in query, got %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
            {"loan_id":"L-1","cso_id":7,"disbursed_at":"2025-01-05T00:00:00Z","disbursed_amount":25000,"outstanding_balance":10000,"status":"ACTIVE"},
            {"loan_id":"L-2","cso_id":7,"disbursed_at":"2025-01-09T00:00:00Z","disbursed_amount":30000,"outstanding_balance":0,"status":"REPAID"}
        ]`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	facts, err := client.ListByCSO(context.Background(), 7, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(facts))
	}
	if facts[0].LoanID != "L-1" || facts[0].Status != model.LoanStatusActive {
		t.Fatalf("unexpected first fact: %+v", facts[0])
	}
	if !facts[0].DisbursedAmount.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("unexpected amount: %s", facts[0].DisbursedAmount)
	}
	if !facts[1].OutstandingBalance.IsZero() {
		t.Fatalf("expected zero balance, got %s", facts[1].OutstandingBalance)
	}
}

func TestListByCSONoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	facts, err := client.ListByCSO(context.Background(), 7, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(facts) != 0 {
		t.Fatalf("expected no facts, got %d", len(facts))
	}
}

func TestListByCSORateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	_, err = client.ListByCSO(context.Background(), 7, time.Time{}, time.Time{})
	var rateLimited RateLimitedError
	if !errors.As(err, &rateLimited) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if rateLimited.RetryAfter != 7*time.Second {
		t.Fatalf("expected retry after 7s, got %v", rateLimited.RetryAfter)
	}
}

func TestListByCSOServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	_, err = client.ListByCSO(context.Background(), 7, time.Time{}, time.Time{})
	if !errors.Is(err, domainErrors.ErrLoanSourceUnavailable) {
		t.Fatalf("expected ErrLoanSourceUnavailable, got %v", err)
	}
}
