package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/lendtrak/incentive/internal/domain/errors"
	"github.com/lendtrak/incentive/internal/domain/model"
	"github.com/lendtrak/incentive/internal/domain/repository"
)

const uniqueViolation = "23505"

// pgxPool is the subset of pgxpool.Pool the storage relies on; pgxmock's
// pool interface satisfies it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type csoRepository struct {
	storage *Storage
}

type baseBonusRepository struct {
	storage *Storage
}

type metricRepository struct {
	storage *Storage
}

type historyRepository struct {
	storage *Storage
}

type receiptRepository struct {
	storage *Storage
}

type balanceRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) CSOs() repository.CSORepository {
	return &csoRepository{storage: s}
}

func (s *Storage) BaseBonuses() repository.BaseBonusRepository {
	return &baseBonusRepository{storage: s}
}

func (s *Storage) Metrics() repository.MetricRepository {
	return &metricRepository{storage: s}
}

func (s *Storage) History() repository.HistoryRepository {
	return &historyRepository{storage: s}
}

func (s *Storage) Receipts() repository.ReceiptRepository {
	return &receiptRepository{storage: s}
}

func (s *Storage) Balances() repository.BalanceRepository {
	return &balanceRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS csos (
            id BIGINT PRIMARY KEY,
            branch TEXT NOT NULL DEFAULT '',
            active BOOLEAN NOT NULL DEFAULT TRUE,
            enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            last_synced_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS base_bonuses (
            cso_id BIGINT PRIMARY KEY REFERENCES csos(id),
            amount NUMERIC NOT NULL DEFAULT 0,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS overshoot_metrics (
            cso_id BIGINT NOT NULL REFERENCES csos(id),
            year INT NOT NULL,
            month INT NOT NULL,
            total_loans INT NOT NULL,
            overshoot_count INT NOT NULL,
            overshoot_value NUMERIC NOT NULL,
            overshoot_bonus NUMERIC NOT NULL,
            computed_at TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (cso_id, year, month)
        )`,
		`CREATE TABLE IF NOT EXISTS bonus_history (
            cso_id BIGINT NOT NULL REFERENCES csos(id),
            year INT NOT NULL,
            month INT NOT NULL,
            base_bonus NUMERIC NOT NULL,
            overshoot_bonus NUMERIC NOT NULL,
            deduction_total NUMERIC NOT NULL,
            total_bonus NUMERIC NOT NULL,
            remaining_bonus NUMERIC NOT NULL,
            withdrawable NUMERIC NOT NULL,
            locked NUMERIC NOT NULL,
            as_of TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (cso_id, year, month)
        )`,
		`CREATE TABLE IF NOT EXISTS withdrawal_receipts (
            id UUID PRIMARY KEY,
            cso_id BIGINT NOT NULL REFERENCES csos(id),
            window_year INT NOT NULL,
            amount NUMERIC NOT NULL,
            performance_portion NUMERIC NOT NULL,
            overshoot_portion NUMERIC NOT NULL,
            approved_at TIMESTAMPTZ NOT NULL,
            UNIQUE (cso_id, window_year)
        )`,
		`CREATE TABLE IF NOT EXISTS operational_balances (
            cso_id BIGINT PRIMARY KEY REFERENCES csos(id),
            balance NUMERIC NOT NULL DEFAULT 0,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_receipts_cso ON withdrawal_receipts(cso_id, approved_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_csos_sync ON csos(active, last_synced_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- CSORepository implementation ---

func (r *csoRepository) GetByID(ctx context.Context, csoID int64) (*model.CSO, error) {
	const query = `SELECT id, branch, active, enrolled_at FROM csos WHERE id=$1`
	var c model.CSO
	err := r.storage.pool.QueryRow(ctx, query, csoID).Scan(&c.ID, &c.Branch, &c.Active, &c.EnrolledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *csoRepository) SelectBatchForSync(ctx context.Context, staleBefore time.Time, limit int) ([]model.CSO, error) {
	const selectQuery = `SELECT id, branch, active, enrolled_at
                         FROM csos
                         WHERE active AND (last_synced_at IS NULL OR last_synced_at < $1)
                         ORDER BY last_synced_at NULLS FIRST
                         LIMIT $2
                         FOR UPDATE SKIP LOCKED`

	var csos []model.CSO
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, staleBefore, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c model.CSO
			if err := rows.Scan(&c.ID, &c.Branch, &c.Active, &c.EnrolledAt); err != nil {
				return err
			}
			csos = append(csos, c)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, c := range csos {
			if _, err := tx.Exec(ctx, `UPDATE csos SET last_synced_at=NOW() WHERE id=$1`, c.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return csos, nil
}

// --- BaseBonusRepository implementation ---

func (r *baseBonusRepository) Get(ctx context.Context, csoID int64) (decimal.Decimal, error) {
	const query = `SELECT amount::text FROM base_bonuses WHERE cso_id=$1`
	var raw string
	err := r.storage.pool.QueryRow(ctx, query, csoID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domainErrors.ErrNotFound
		}
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse base bonus: %w", err)
	}
	return amount, nil
}

// --- MetricRepository implementation ---

func (r *metricRepository) Upsert(ctx context.Context, metric *model.OvershootMetric) error {
	const query = `INSERT INTO overshoot_metrics
                       (cso_id, year, month, total_loans, overshoot_count, overshoot_value, overshoot_bonus, computed_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   ON CONFLICT (cso_id, year, month) DO UPDATE SET
                       total_loans = EXCLUDED.total_loans,
                       overshoot_count = EXCLUDED.overshoot_count,
                       overshoot_value = EXCLUDED.overshoot_value,
                       overshoot_bonus = EXCLUDED.overshoot_bonus,
                       computed_at = EXCLUDED.computed_at`
	_, err := r.storage.pool.Exec(ctx, query,
		metric.CSOID, metric.Year, int(metric.Month),
		metric.TotalLoans, metric.OvershootCount,
		metric.OvershootValue.String(), metric.OvershootBonus.String(),
		metric.ComputedAt,
	)
	return err
}

func (r *metricRepository) Get(ctx context.Context, csoID int64, year int, month time.Month) (*model.OvershootMetric, error) {
	const query = `SELECT total_loans, overshoot_count, overshoot_value::text, overshoot_bonus::text, computed_at
                   FROM overshoot_metrics WHERE cso_id=$1 AND year=$2 AND month=$3`
	var (
		m     model.OvershootMetric
		value string
		bonus string
	)
	err := r.storage.pool.QueryRow(ctx, query, csoID, year, int(month)).Scan(
		&m.TotalLoans, &m.OvershootCount, &value, &bonus, &m.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	m.CSOID = csoID
	m.Year = year
	m.Month = month
	if m.OvershootValue, err = decimal.NewFromString(value); err != nil {
		return nil, fmt.Errorf("parse overshoot value: %w", err)
	}
	if m.OvershootBonus, err = decimal.NewFromString(bonus); err != nil {
		return nil, fmt.Errorf("parse overshoot bonus: %w", err)
	}
	return &m, nil
}

// --- HistoryRepository implementation ---

func (r *historyRepository) UpsertOpen(ctx context.Context, row *model.HistoryRow) error {
	// The conflict update carries a month guard so a closed month's row
	// stays immutable even if a caller misbehaves.
	const query = `INSERT INTO bonus_history
                       (cso_id, year, month, base_bonus, overshoot_bonus, deduction_total,
                        total_bonus, remaining_bonus, withdrawable, locked, as_of)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                   ON CONFLICT (cso_id, year, month) DO UPDATE SET
                       base_bonus = EXCLUDED.base_bonus,
                       overshoot_bonus = EXCLUDED.overshoot_bonus,
                       deduction_total = EXCLUDED.deduction_total,
                       total_bonus = EXCLUDED.total_bonus,
                       remaining_bonus = EXCLUDED.remaining_bonus,
                       withdrawable = EXCLUDED.withdrawable,
                       locked = EXCLUDED.locked,
                       as_of = EXCLUDED.as_of
                   WHERE make_date(bonus_history.year, bonus_history.month, 1) >= date_trunc('month', NOW())::date`
	_, err := r.storage.pool.Exec(ctx, query,
		row.CSOID, row.Year, int(row.Month),
		row.BaseBonus.String(), row.OvershootBonus.String(), row.DeductionTotal.String(),
		row.TotalBonus.String(), row.RemainingBonus.String(),
		row.Withdrawable.String(), row.Locked.String(),
		row.AsOf,
	)
	return err
}

func (r *historyRepository) Latest(ctx context.Context, csoID int64) (*model.HistoryRow, error) {
	const query = `SELECT year, month, base_bonus::text, overshoot_bonus::text, deduction_total::text,
                          total_bonus::text, remaining_bonus::text, withdrawable::text, locked::text, as_of
                   FROM bonus_history WHERE cso_id=$1 ORDER BY year DESC, month DESC LIMIT 1`
	row, err := scanHistoryRow(r.storage.pool.QueryRow(ctx, query, csoID), csoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

func (r *historyRepository) ListYear(ctx context.Context, csoID int64, year int) ([]model.HistoryRow, error) {
	const query = `SELECT year, month, base_bonus::text, overshoot_bonus::text, deduction_total::text,
                          total_bonus::text, remaining_bonus::text, withdrawable::text, locked::text, as_of
                   FROM bonus_history WHERE cso_id=$1 AND year=$2 ORDER BY month`
	rows, err := r.storage.pool.Query(ctx, query, csoID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.HistoryRow
	for rows.Next() {
		row, err := scanHistoryRow(rows, csoID)
		if err != nil {
			return nil, err
		}
		result = append(result, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanHistoryRow(row pgx.Row, csoID int64) (*model.HistoryRow, error) {
	var (
		h     model.HistoryRow
		month int
		raw   [7]string
	)
	err := row.Scan(&h.Year, &month, &raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &raw[5], &raw[6], &h.AsOf)
	if err != nil {
		return nil, err
	}
	h.CSOID = csoID
	h.Month = time.Month(month)

	fields := []*decimal.Decimal{
		&h.BaseBonus, &h.OvershootBonus, &h.DeductionTotal,
		&h.TotalBonus, &h.RemainingBonus, &h.Withdrawable, &h.Locked,
	}
	for i, dst := range fields {
		d, err := decimal.NewFromString(raw[i])
		if err != nil {
			return nil, fmt.Errorf("parse history amount: %w", err)
		}
		*dst = d
	}
	return &h, nil
}

// --- ReceiptRepository implementation ---

func (r *receiptRepository) Approve(ctx context.Context, receipt *model.WithdrawalReceipt) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertReceipt = `INSERT INTO withdrawal_receipts
                                   (id, cso_id, window_year, amount, performance_portion, overshoot_portion, approved_at)
                               VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := tx.Exec(ctx, insertReceipt,
			receipt.ID, receipt.CSOID, receipt.WindowYear,
			receipt.Amount.String(),
			receipt.Breakdown.PerformancePortion.String(),
			receipt.Breakdown.OvershootPortion.String(),
			receipt.ApprovedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return domainErrors.ErrAlreadyApproved
			}
			return err
		}

		const creditBalance = `INSERT INTO operational_balances (cso_id, balance, updated_at)
                               VALUES ($1, $2, NOW())
                               ON CONFLICT (cso_id) DO UPDATE SET
                                   balance = operational_balances.balance + EXCLUDED.balance,
                                   updated_at = NOW()`
		if _, err := tx.Exec(ctx, creditBalance, receipt.CSOID, receipt.Amount.String()); err != nil {
			return err
		}
		return nil
	})
}

func (r *receiptRepository) GetByWindowYear(ctx context.Context, csoID int64, windowYear int) (*model.WithdrawalReceipt, error) {
	const query = `SELECT id, window_year, amount::text, performance_portion::text, overshoot_portion::text, approved_at
                   FROM withdrawal_receipts WHERE cso_id=$1 AND window_year=$2`
	return r.scanReceipt(r.storage.pool.QueryRow(ctx, query, csoID, windowYear), csoID)
}

func (r *receiptRepository) Last(ctx context.Context, csoID int64) (*model.WithdrawalReceipt, error) {
	const query = `SELECT id, window_year, amount::text, performance_portion::text, overshoot_portion::text, approved_at
                   FROM withdrawal_receipts WHERE cso_id=$1 ORDER BY approved_at DESC LIMIT 1`
	return r.scanReceipt(r.storage.pool.QueryRow(ctx, query, csoID), csoID)
}

func (r *receiptRepository) scanReceipt(row pgx.Row, csoID int64) (*model.WithdrawalReceipt, error) {
	var (
		receipt     model.WithdrawalReceipt
		amount      string
		performance string
		overshoot   string
	)
	err := row.Scan(&receipt.ID, &receipt.WindowYear, &amount, &performance, &overshoot, &receipt.ApprovedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	receipt.CSOID = csoID
	if receipt.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse receipt amount: %w", err)
	}
	if receipt.Breakdown.PerformancePortion, err = decimal.NewFromString(performance); err != nil {
		return nil, fmt.Errorf("parse performance portion: %w", err)
	}
	if receipt.Breakdown.OvershootPortion, err = decimal.NewFromString(overshoot); err != nil {
		return nil, fmt.Errorf("parse overshoot portion: %w", err)
	}
	return &receipt, nil
}

// --- BalanceRepository implementation ---

func (r *balanceRepository) Get(ctx context.Context, csoID int64) (*model.OperationalBalance, error) {
	const query = `SELECT balance::text, updated_at FROM operational_balances WHERE cso_id=$1`
	var (
		raw     string
		balance model.OperationalBalance
	)
	err := r.storage.pool.QueryRow(ctx, query, csoID).Scan(&raw, &balance.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.OperationalBalance{CSOID: csoID, Balance: decimal.Zero}, nil
		}
		return nil, err
	}
	balance.CSOID = csoID
	if balance.Balance, err = decimal.NewFromString(raw); err != nil {
		return nil, fmt.Errorf("parse operational balance: %w", err)
	}
	return &balance, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
