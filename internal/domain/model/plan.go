package model

import (
	"talkpdf-backend/internal/domain"
)

// PlanID is the closed set of subscription tiers. Anything else is treated
// as the free tier when reading entitlements.
type PlanID string

const (
	PlanFree        PlanID = "free"
	PlanStudentPro  PlanID = "student_pro"
	PlanMasteryPass PlanID = "mastery_pass"
)

type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Currency is fixed per deployment.
const Currency = "NGN"

type planPrice struct {
	Monthly int64
	Yearly  int64
}

// priceTable is the single authority for what a plan costs, in minor units.
// The free tier is not purchasable and deliberately absent.
var priceTable = map[PlanID]planPrice{
	PlanStudentPro:  {Monthly: 2000, Yearly: 19200},
	PlanMasteryPass: {Monthly: 3500, Yearly: 33600},
}

// ParsePlan accepts only purchasable plans.
func ParsePlan(s string) (PlanID, error) {
	p := PlanID(s)
	if _, ok := priceTable[p]; !ok {
		return "", domain.ErrInvalidArgument
	}
	return p, nil
}

func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(s) {
	case CycleMonthly:
		return CycleMonthly, nil
	case CycleYearly:
		return CycleYearly, nil
	}
	return "", domain.ErrInvalidArgument
}

// PriceFor returns the minor-unit amount for a plan and cycle. Client-supplied
// amounts are never consulted; this table is the only source of truth.
func PriceFor(plan PlanID, cycle BillingCycle) (int64, error) {
	prices, ok := priceTable[plan]
	if !ok {
		return 0, domain.ErrInvalidArgument
	}
	switch cycle {
	case CycleMonthly:
		return prices.Monthly, nil
	case CycleYearly:
		return prices.Yearly, nil
	}
	return 0, domain.ErrInvalidArgument
}
