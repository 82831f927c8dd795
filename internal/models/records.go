package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a financial movement.
type TransactionKind string

const (
	KindExpense  TransactionKind = "expense"
	KindIncome   TransactionKind = "income"
	KindTransfer TransactionKind = "transfer"
)

// Transaction represents one financial movement. Amount is always positive;
// the kind carries the direction. Transfers use SourceWallet/DestWallet
// instead of Wallet.
type Transaction struct {
	Id           string
	Kind         TransactionKind
	Amount       decimal.Decimal
	Wallet       string
	SourceWallet string
	DestWallet   string
	Description  string
	Category     string
	Date         time.Time // day granularity
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CategoryOrDefault returns the transaction category, bucketing records
// without one under "Other" so category rules never have to special-case it.
func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return "Other"
	}
	return t.Category
}

// Subscription represents a recurring charge normalized by its cadence.
type Subscription struct {
	Id            string
	Name          string
	Amount        decimal.Decimal
	CadenceMonths int // >= 1
	NextChargeAt  time.Time
	Active        bool
}

// MonthlyCost normalizes the subscription amount to a per-month figure.
func (s Subscription) MonthlyCost() decimal.Decimal {
	if s.CadenceMonths <= 1 {
		return s.Amount
	}
	return s.Amount.Div(decimal.NewFromInt(int64(s.CadenceMonths)))
}

// MentalRecord is one mood log entry. Multiple records per day are allowed
// and count as distinct samples unless a rule deduplicates by day.
type MentalRecord struct {
	Id        string
	Date      time.Time // day granularity
	MoodLevel int       // 1..5
	Tags      []string
}

// ActivityType enumerates the tracked physical activities.
type ActivityType string

const (
	ActivityWalk     ActivityType = "walk"
	ActivityRun      ActivityType = "run"
	ActivityGym      ActivityType = "gym"
	ActivitySport    ActivityType = "sport"
	ActivityStretch  ActivityType = "stretch"
	ActivityCycling  ActivityType = "cycling"
	ActivitySwimming ActivityType = "swimming"
	ActivityOther    ActivityType = "other"
)

// PhysicalRecord is one activity log entry. Same-day entries are collapsed
// to a single active day by streak and frequency rules.
type PhysicalRecord struct {
	Id           string
	Date         time.Time // day granularity
	ActivityType ActivityType
	DurationMin  int
}

// PricePoint is one observed price for a tracked product.
type PricePoint struct {
	Product    string
	Amount     decimal.Decimal
	RecordedAt time.Time
}

// PriceHistory indexes observed price points by product name.
type PriceHistory map[string][]PricePoint
