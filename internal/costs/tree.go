package costs

import "github.com/jdlms/aws-tui/internal/types"

// DefaultExpanded is the number of services opened after a load
const DefaultExpanded = 5

// Row is one visible line of the cost tree
type Row struct {
	ID       string
	ParentID string
	Name     string
	Amount   float64
	Unit     string
	Percent  float64
	Level    int
	Expanded bool
}

// IsService reports whether the row is a top-level service
func (r Row) IsService() bool {
	return r.Level == 0
}

// Expansion is the set of opened service ids
type Expansion map[string]bool

// TopExpanded opens the first n services of s
func TopExpanded(s types.CostSummary, n int) Expansion {
	e := make(Expansion, n)
	for i, svc := range s.Services {
		if i >= n {
			break
		}
		e[svc.ID] = true
	}
	return e
}

// AllExpanded reports whether every service of s is open
func (e Expansion) AllExpanded(s types.CostSummary) bool {
	for _, svc := range s.Services {
		if !e[svc.ID] {
			return false
		}
	}
	return true
}

// Toggle opens every service unless all are open, in which case it closes all
func (e Expansion) Toggle(s types.CostSummary) Expansion {
	if e.AllExpanded(s) {
		return Expansion{}
	}
	next := make(Expansion, len(s.Services))
	for _, svc := range s.Services {
		next[svc.ID] = true
	}
	return next
}

// Rows flattens the tree, listing children only under opened services
func Rows(s types.CostSummary, e Expansion) []Row {
	var rows []Row
	for _, svc := range s.Services {
		open := e[svc.ID]
		rows = append(rows, Row{
			ID:       svc.ID,
			Name:     svc.Name,
			Amount:   svc.Amount,
			Unit:     svc.Unit,
			Percent:  svc.PercentOfTotal,
			Expanded: open,
		})
		if !open {
			continue
		}
		for _, child := range svc.Children {
			rows = append(rows, Row{
				ID:       child.ID,
				ParentID: svc.ID,
				Name:     child.Name,
				Amount:   child.Amount,
				Unit:     child.Unit,
				Percent:  child.PercentOfService,
				Level:    1,
			})
		}
	}
	return rows
}
