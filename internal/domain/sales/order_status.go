package sales

// OrderStatus is the coarse lifecycle of an order. Any status may follow
// any other; only entering StatusBetweenFinished needs an administrator.
type OrderStatus string

const (
	StatusOpen                  OrderStatus = "EM ABERTO"
	StatusInProduction          OrderStatus = "EM PRODUÇÃO"
	StatusAwaitingApproval      OrderStatus = "AGUARDANDO APROVAÇÃO"
	StatusAwaitingInvoice       OrderStatus = "AGUARDANDO NF"
	StatusAwaitingPayment       OrderStatus = "AGUARDANDO PAGAMENTO"
	StatusAwaitingCustomization OrderStatus = "AGUARDANDO PERSONALIZAÇÃO"
	StatusFinished              OrderStatus = "FINALIZADO"
	StatusBetweenFinished       OrderStatus = "ENTRE FINALIZADO"
)

// AllOrderStatuses returns the statuses in the order users pick them
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusOpen,
		StatusInProduction,
		StatusAwaitingApproval,
		StatusAwaitingInvoice,
		StatusAwaitingPayment,
		StatusAwaitingCustomization,
		StatusFinished,
		StatusBetweenFinished,
	}
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	for _, status := range AllOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// RequiresAdmin reports whether moving into s needs the administrator capability
func (s OrderStatus) RequiresAdmin() bool {
	return s == StatusBetweenFinished
}
