package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TopProductsLimit is how many products the monthly ranking keeps
const TopProductsLimit = 5

// undefinedProductName groups items saved without a product name
const undefinedProductName = "Indefinido"

// CostPolicy decides which cost figure a report charges against sales
type CostPolicy string

const (
	// CostPolicyRealizedOrEstimated charges the realized cost of an item
	// when any was entered and its estimate otherwise
	CostPolicyRealizedOrEstimated CostPolicy = "realized_or_estimated"
	CostPolicyEstimated           CostPolicy = "estimated"
	CostPolicyRealized            CostPolicy = "realized"
)

// DefaultCostPolicy is used when the caller does not pick one
const DefaultCostPolicy = CostPolicyRealizedOrEstimated

// ParseCostPolicy validates a policy name; empty means DefaultCostPolicy
func ParseCostPolicy(s string) (CostPolicy, error) {
	switch p := CostPolicy(s); p {
	case "":
		return DefaultCostPolicy, nil
	case CostPolicyRealizedOrEstimated, CostPolicyEstimated, CostPolicyRealized:
		return p, nil
	}
	return "", shared.NewValidationError(fmt.Sprintf("unknown cost policy %q", s))
}

// ItemCost returns the cost of one item under the policy
func (p CostPolicy) ItemCost(item *sales.OrderItem) decimal.Decimal {
	switch p {
	case CostPolicyEstimated:
		return item.RawCost()
	case CostPolicyRealized:
		return item.RealizedTotal()
	}
	if realized := item.RealizedTotal(); realized.IsPositive() {
		return realized
	}
	return item.RawCost()
}

// ProductSales is one row of the top products ranking
type ProductSales struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// StatusSales aggregates orders sharing a lifecycle status
type StatusSales struct {
	Status sales.OrderStatus `json:"status"`
	Count  int               `json:"count"`
	Total  decimal.Decimal   `json:"total"`
}

// MonthlyReport is the read model behind the reports page
type MonthlyReport struct {
	Year             int             `json:"year"`
	Month            time.Month      `json:"month"`
	CostPolicy       CostPolicy      `json:"cost_policy"`
	OrderCount       int             `json:"order_count"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalCommissions decimal.Decimal `json:"total_commissions"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Net              decimal.Decimal `json:"net"`
	TopProducts      []ProductSales  `json:"top_products"`
	SalesByStatus    []StatusSales   `json:"sales_by_status"`
}

// MonthlyInput is everything the report aggregates for one month
type MonthlyInput struct {
	Year        int
	Month       time.Month
	Policy      CostPolicy
	Orders      []sales.Order   // orders dated in the month
	Commissions decimal.Decimal // commissions accrued in the month
	Expenses    decimal.Decimal // company expenses due in the month
}

// BuildMonthlyReport aggregates a month. Net is sales minus cost, commissions
// and company expenses.
func BuildMonthlyReport(in MonthlyInput) *MonthlyReport {
	policy := in.Policy
	if policy == "" {
		policy = DefaultCostPolicy
	}

	r := &MonthlyReport{
		Year:             in.Year,
		Month:            in.Month,
		CostPolicy:       policy,
		OrderCount:       len(in.Orders),
		TotalSales:       decimal.Zero,
		TotalCost:        decimal.Zero,
		TotalCommissions: in.Commissions,
		TotalExpenses:    in.Expenses,
	}

	products := make(map[string]*ProductSales)
	statuses := make(map[sales.OrderStatus]*StatusSales)
	for i := range in.Orders {
		order := &in.Orders[i]
		r.TotalSales = r.TotalSales.Add(order.TotalAmount)

		st, ok := statuses[order.Status]
		if !ok {
			st = &StatusSales{Status: order.Status, Total: decimal.Zero}
			statuses[order.Status] = st
		}
		st.Count++
		st.Total = st.Total.Add(order.TotalAmount)

		for j := range order.Items {
			item := &order.Items[j]
			r.TotalCost = r.TotalCost.Add(policy.ItemCost(item))

			name := item.ProductName
			if name == "" {
				name = undefinedProductName
			}
			ps, ok := products[name]
			if !ok {
				ps = &ProductSales{Name: name, Total: decimal.Zero}
				products[name] = ps
			}
			ps.Quantity += item.Quantity
			ps.Total = ps.Total.Add(item.UnitSalePrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	r.Net = r.TotalSales.Sub(r.TotalCost).Sub(r.TotalCommissions).Sub(r.TotalExpenses)
	r.TopProducts = topProducts(products, TopProductsLimit)
	r.SalesByStatus = salesByStatus(statuses)
	return r
}

func topProducts(products map[string]*ProductSales, limit int) []ProductSales {
	ranking := make([]ProductSales, 0, len(products))
	for _, p := range products {
		ranking = append(ranking, *p)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if c := ranking[i].Total.Cmp(ranking[j].Total); c != 0 {
			return c > 0
		}
		return ranking[i].Name < ranking[j].Name
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

func salesByStatus(statuses map[sales.OrderStatus]*StatusSales) []StatusSales {
	rows := make([]StatusSales, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, *s)
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Status < rows[j].Status
	})
	return rows
}
