package lifecycle

import (
	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/ledger"
)

type ClientFinancials struct {
	ClientID              uuid.UUID `json:"client_id"`
	TotalProjectCost      float64   `json:"total_project_cost"`
	WorkPool              float64   `json:"work_pool"`
	CompanyPool           float64   `json:"company_pool"`
	DigitalMarketingCosts float64   `json:"digital_marketing_costs"`
	TravellingCharges     float64   `json:"travelling_charges"`
	NetProfit             float64   `json:"net_profit"`
}

func Financials(c *client.Client) ClientFinancials {
	return ClientFinancials{
		ClientID:              c.UUID,
		TotalProjectCost:      c.TotalProjectCost,
		WorkPool:              c.WorkPool(),
		CompanyPool:           c.CompanyPool(),
		DigitalMarketingCosts: c.DigitalMarketingTotal(),
		TravellingCharges:     c.CompanySplit.TravellingCharges,
		NetProfit:             c.NetProfit(),
	}
}

// Summarize folds every client and ledger transaction into one summary.
func Summarize(clients []*client.Client, transactions []*ledger.Transaction) ledger.Summary {
	var s ledger.Summary
	for _, c := range clients {
		s.TotalProjectCosts += c.TotalProjectCost
		s.TotalWorkSplit += c.WorkPool()
		s.TotalCompanySplit += c.CompanyPool()
		s.TotalDigitalMarketingCosts += c.DigitalMarketingTotal()
		s.TotalTravellingCharges += c.CompanySplit.TravellingCharges
	}
	for _, t := range transactions {
		switch t.Type {
		case ledger.TypeIncome:
			s.TotalOtherIncome += t.Amount
		case ledger.TypeExpense:
			s.TotalOtherExpenses += t.Amount
		}
	}
	s.TotalRevenue = s.TotalProjectCosts + s.TotalOtherIncome
	s.NetProfit = s.TotalCompanySplit - s.TotalDigitalMarketingCosts - s.TotalTravellingCharges - s.TotalOtherExpenses
	return s
}
