package router

import (
	"github.com/brindes/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers served under the API prefix
type Handlers struct {
	Order      *handler.OrderHandler
	Commission *handler.CommissionHandler
	Factor     *handler.FactorHandler
	Partner    *handler.PartnerHandler
	Product    *handler.ProductHandler
	Expense    *handler.ExpenseHandler
	Report     *handler.ReportHandler
	System     *handler.SystemHandler
}

// DomainGroups builds the route table. payableGuard runs in front of the
// payable confirmation, the one command that must not be repeated on retry;
// it may be nil.
func DomainGroups(h Handlers, payableGuard gin.HandlerFunc) []*DomainGroup {
	confirmPayable := []gin.HandlerFunc{h.Order.ConfirmPayable}
	if payableGuard != nil {
		confirmPayable = append([]gin.HandlerFunc{payableGuard}, confirmPayable...)
	}

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", h.Order.Create)
	orders.GET("", h.Order.List)
	orders.GET("/:id", h.Order.GetByID)
	orders.PUT("/:id", h.Order.Update)
	orders.DELETE("/:id", h.Order.Delete)
	orders.POST("/:id/installments/confirm", h.Order.ConfirmInstallment)
	orders.POST("/:id/payables/confirm", confirmPayable...)
	orders.PUT("/:id/costs", h.Order.SetRealizedCost)
	orders.POST("/:id/status", h.Order.ChangeStatus)
	orders.GET("/:id/settlement", h.Order.Settlement)
	orders.GET("/:id/logs", h.Order.AuditLog)

	finance := NewDomainGroup("finance", "/finance")
	finance.GET("/receivables", h.Order.Receivables)
	finance.GET("/payables", h.Order.Payables)
	finance.GET("/commissions", h.Commission.List)
	finance.POST("/expenses", h.Expense.Create)
	finance.GET("/expenses", h.Expense.List)
	finance.POST("/expenses/:id/toggle-paid", h.Expense.TogglePaid)
	finance.DELETE("/expenses/:id", h.Expense.Delete)

	factors := NewDomainGroup("factors", "/factors")
	factors.POST("", h.Factor.Create)
	factors.GET("", h.Factor.List)
	factors.POST("/seed", h.Factor.SeedDefaults)
	factors.GET("/:id", h.Factor.GetByID)
	factors.PUT("/:id", h.Factor.Update)
	factors.DELETE("/:id", h.Factor.Delete)

	partners := NewDomainGroup("partners", "/partners")
	partners.POST("", h.Partner.Create)
	partners.GET("", h.Partner.List)
	partners.GET("/:id", h.Partner.GetByID)
	partners.PUT("/:id", h.Partner.Update)
	partners.DELETE("/:id", h.Partner.Delete)

	products := NewDomainGroup("products", "/products")
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Rename)
	products.DELETE("/:id", h.Product.Delete)

	reports := NewDomainGroup("reports", "/reports")
	reports.GET("/monthly", h.Report.Monthly)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{orders, finance, factors, partners, products, reports, system}
}

// PublicPaths are the API paths served without a bearer token
func PublicPaths(basePath string) []string {
	return []string{
		"/health",
		basePath + "/system/info",
	}
}
