// Package costs turns flat Cost Explorer records into the service tree shown by
// the costs view.
package costs

import (
	"sort"

	"github.com/jdlms/aws-tui/internal/types"
)

const (
	// DefaultUnit is used when no record carries a unit
	DefaultUnit = "USD"

	unknownUsageName = "unknown usage"
	unknownUsageID   = "unknown"
)

type serviceAcc struct {
	name     string
	unit     string
	children []*types.ResourceCost
	byUsage  map[string]*types.ResourceCost
}

// Aggregate groups records by service and usage type, summing duplicates
// across time buckets, and sorts both levels by descending amount.
// Equal amounts keep the order in which they were first seen.
//
// Service amounts are the sum of their children in final order and the total
// is the sum of the services in final order, so both sums hold exactly.
func Aggregate(records []types.CostRecord) types.CostSummary {
	var order []*serviceAcc
	services := make(map[string]*serviceAcc)

	unit := ""
	mixed := false

	for _, rec := range records {
		if rec.Service == "" {
			continue
		}

		recUnit := rec.Unit
		switch {
		case recUnit == "" && unit == "":
			recUnit = DefaultUnit
		case recUnit == "":
			recUnit = unit
		}
		if unit != "" && recUnit != unit {
			mixed = true
		}
		unit = recUnit

		svc, ok := services[rec.Service]
		if !ok {
			svc = &serviceAcc{
				name:    rec.Service,
				unit:    unit,
				byUsage: make(map[string]*types.ResourceCost),
			}
			services[rec.Service] = svc
			order = append(order, svc)
		}

		usageKey := rec.UsageType
		child, ok := svc.byUsage[usageKey]
		if !ok {
			child = newChild(rec.Service, rec.UsageType, unit)
			svc.byUsage[usageKey] = child
			svc.children = append(svc.children, child)
		}
		child.Amount += rec.Amount
	}

	summary := types.CostSummary{
		Unit:       unit,
		Services:   make([]types.ServiceCost, 0, len(order)),
		MixedUnits: mixed,
	}
	if summary.Unit == "" {
		summary.Unit = DefaultUnit
	}

	for _, acc := range order {
		children := make([]types.ResourceCost, 0, len(acc.children))
		for _, c := range acc.children {
			children = append(children, *c)
		}
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Amount > children[j].Amount
		})

		var amount float64
		for _, c := range children {
			amount += c.Amount
		}
		for i := range children {
			children[i].PercentOfService = percent(children[i].Amount, amount)
		}

		summary.Services = append(summary.Services, types.ServiceCost{
			ID:       acc.name,
			Name:     acc.name,
			Amount:   amount,
			Unit:     acc.unit,
			Children: children,
		})
	}

	sort.SliceStable(summary.Services, func(i, j int) bool {
		return summary.Services[i].Amount > summary.Services[j].Amount
	})

	for _, svc := range summary.Services {
		summary.Total += svc.Amount
	}
	for i := range summary.Services {
		summary.Services[i].PercentOfTotal = percent(summary.Services[i].Amount, summary.Total)
	}

	return summary
}

func newChild(service, usageType, unit string) *types.ResourceCost {
	if usageType == "" {
		return &types.ResourceCost{
			ID:   service + ":" + unknownUsageID,
			Name: unknownUsageName,
			Unit: unit,
		}
	}
	return &types.ResourceCost{
		ID:        service + ":" + usageType,
		Name:      usageType,
		UsageType: usageType,
		Unit:      unit,
	}
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
