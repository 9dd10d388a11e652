package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// sortable whitelists the keys a list endpoint may sort by. Keys map to
// column names so user input never reaches the SQL text.
type sortable struct {
	columns     map[string]string
	defaultKey  string
	defaultDesc bool
}

// orderBy resolves a requested key and direction. Unknown keys fall back to
// the default column; a direction other than asc/desc keeps the default.
func (s sortable) orderBy(key, dir string) clause.OrderByColumn {
	column, ok := s.columns[strings.TrimSpace(key)]
	if !ok {
		column = s.columns[s.defaultKey]
	}
	desc := s.defaultDesc
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		desc = false
	case "desc":
		desc = true
	}
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}

var (
	orderSort = sortable{
		columns: map[string]string{
			"created_at":       "created_at",
			"updated_at":       "updated_at",
			"order_number":     "order_number",
			"order_date":       "order_date",
			"budget_date":      "budget_date",
			"payment_due_date": "payment_due_date",
			"salesperson":      "salesperson",
			"status":           "status",
			"total":            "total_amount",
			"total_amount":     "total_amount",
		},
		defaultKey:  "order_date",
		defaultDesc: true,
	}

	partnerSort = sortable{
		columns: map[string]string{
			"created_at": "created_at",
			"name":       "name",
			"document":   "document",
			"type":       "type",
		},
		defaultKey: "name",
	}

	productSort = sortable{
		columns: map[string]string{
			"created_at": "created_at",
			"name":       "name",
		},
		defaultKey: "name",
	}
)
