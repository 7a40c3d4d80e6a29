package signal

import (
	"math"

	"scalp-radar/internal/domain"
)

const contractMultiplier = 100

// Contracts returns how many option contracts a dollar budget affords at the
// given premium. Degenerate inputs yield zero rather than faulting.
func Contracts(budget, premium float64) int {
	if budget <= 0 || premium <= 0 {
		return 0
	}
	return int(math.Floor(budget / (premium * contractMultiplier)))
}

// SimulatePayout builds the display-level payout table for a budget against a
// planned signal's premium and profit targets.
func SimulatePayout(budget float64, sig domain.TradeSignal) domain.PayoutPlan {
	plan := domain.PayoutPlan{
		Budget:  budget,
		Premium: sig.EstimatedPremium,
	}
	plan.Contracts = Contracts(budget, sig.EstimatedPremium)
	plan.CostBasis = float64(plan.Contracts) * sig.EstimatedPremium * contractMultiplier

	for _, m := range []float64{target1Multiple, target2Multiple, target3Multiple} {
		optionPrice := round2(sig.EstimatedPremium * m)
		perContract := round2((optionPrice - sig.EstimatedPremium) * contractMultiplier)
		plan.Targets = append(plan.Targets, domain.PayoutTarget{
			Multiple:          m,
			OptionPrice:       optionPrice,
			ProfitPerContract: perContract,
			TotalProfit:       round2(perContract * float64(plan.Contracts)),
		})
	}
	return plan
}
