package ledger

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is an income or expense entry outside client project costs.
type Transaction struct {
	UUID        uuid.UUID       `json:"id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

type Category struct {
	UUID      uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the organisation-wide financial rollup.
type Summary struct {
	TotalRevenue               float64 `json:"total_revenue"`
	TotalProjectCosts          float64 `json:"total_project_costs"`
	TotalWorkSplit             float64 `json:"total_work_split"`
	TotalCompanySplit          float64 `json:"total_company_split"`
	TotalDigitalMarketingCosts float64 `json:"total_digital_marketing_costs"`
	TotalTravellingCharges     float64 `json:"total_travelling_charges"`
	TotalOtherIncome           float64 `json:"total_other_income"`
	TotalOtherExpenses         float64 `json:"total_other_expenses"`
	NetProfit                  float64 `json:"net_profit"`
}
