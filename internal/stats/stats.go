package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/dates"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
)

// fallbackSavedCost stands in for trials whose cost was never recorded when
// summing realized savings. Potential savings never substitute a fallback.
var fallbackSavedCost = decimal.NewFromInt(10)

// Summary aggregates a user's trial portfolio into dashboard counters.
type Summary struct {
	ActiveCount      int             `json:"active_count"`
	KeptCount        int             `json:"kept_count"`
	CancelledCount   int             `json:"cancelled_count"`
	ExpiredCount     int             `json:"expired_count"`
	MoneySaved       decimal.Decimal `json:"money_saved"`
	PotentialSavings decimal.Decimal `json:"potential_savings"`
	HasRealCosts     bool            `json:"has_real_costs"`
}

// Compute folds the trial set into a Summary relative to the provided instant.
// Cancelled and expired trials count toward realized savings; active trials
// count, and contribute potential savings, only while their end date is still
// ahead of now.
func Compute(trials []models.Trial, now time.Time) Summary {
	summary := Summary{
		MoneySaved:       decimal.Zero,
		PotentialSavings: decimal.Zero,
	}

	for _, trial := range trials {
		outcome := trial.Outcome
		if outcome == "" {
			// rows predating the outcome column
			outcome = enums.OutcomeActive
		}
		switch outcome {
		case enums.OutcomeActive:
			if !dates.IsExpiredAt(trial.EndDate, now) {
				summary.ActiveCount++
				if trial.Cost != nil {
					summary.PotentialSavings = summary.PotentialSavings.Add(*trial.Cost)
				}
			}
		case enums.OutcomeKept:
			summary.KeptCount++
		case enums.OutcomeCancelled:
			summary.CancelledCount++
		case enums.OutcomeExpired:
			summary.ExpiredCount++
		}

		if outcome.CountsAsSaved() {
			if trial.Cost != nil {
				summary.MoneySaved = summary.MoneySaved.Add(*trial.Cost)
				summary.HasRealCosts = true
			} else {
				summary.MoneySaved = summary.MoneySaved.Add(fallbackSavedCost)
			}
		}
	}

	summary.MoneySaved = summary.MoneySaved.Round(2)
	summary.PotentialSavings = summary.PotentialSavings.Round(2)
	return summary
}
