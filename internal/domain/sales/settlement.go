package sales

import "github.com/shopspring/decimal"

// Settlement reconciles what was received against what the order cost.
// EstimatedBalance is the budgeted margin and RealBalance the realized one;
// they are separate metrics and both are always reported.
type Settlement struct {
	EstimatedCost     decimal.Decimal
	RealizedCost      decimal.Decimal
	ConfirmedReceipts decimal.Decimal
	EstimatedBalance  decimal.Decimal
	RealBalance       decimal.Decimal
}

// Settlement recomputes the balances from the current state. Nothing is stored.
func (o *Order) Settlement() Settlement {
	estimated := decimal.Zero
	realized := decimal.Zero
	for i := range o.Items {
		estimated = estimated.Add(o.Items[i].RawCost())
		realized = realized.Add(o.Items[i].RealizedTotal())
	}
	receipts := o.Entry.ReceivedAmount().Add(o.Remainder.ReceivedAmount())

	return Settlement{
		EstimatedCost:     estimated,
		RealizedCost:      realized,
		ConfirmedReceipts: receipts,
		EstimatedBalance:  receipts.Sub(estimated),
		RealBalance:       receipts.Sub(realized),
	}
}
