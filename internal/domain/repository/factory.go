package repository

// Factory describes access to different domain repositories.
type Factory interface {
	CSOs() CSORepository
	BaseBonuses() BaseBonusRepository
	Metrics() MetricRepository
	History() HistoryRepository
	Receipts() ReceiptRepository
	Balances() BalanceRepository
}
