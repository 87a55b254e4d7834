package model

// Closed enumerations for the cash ledger. There is no legitimate "other"
// case: DTO validation rejects anything outside these sets at creation time,
// and the summarizer skips (and logs) unknown values found in historical rows.

// SessionStatus is the lifecycle state of a CashRegisterSession.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// MovementType classifies a CashMovement. INCOME and EXPENSE are manual
// entries; SALE and REFUND originate from the order/checkout subsystem.
type MovementType string

const (
	MovementIncome  MovementType = "INCOME"
	MovementExpense MovementType = "EXPENSE"
	MovementSale    MovementType = "SALE"
	MovementRefund  MovementType = "REFUND"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIncome, MovementExpense, MovementSale, MovementRefund:
		return true
	}
	return false
}

// AddsCash reports whether a movement of this type increases the drawer
// balance (when settled in cash).
func (t MovementType) AddsCash() bool {
	return t == MovementIncome || t == MovementSale
}

// PaymentMethod is the settlement channel of a movement. Only CASH affects
// the physical drawer balance.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCardDebit  PaymentMethod = "CARD_DEBIT"
	PaymentCardCredit PaymentMethod = "CARD_CREDIT"
	PaymentAccount    PaymentMethod = "ACCOUNT"
	PaymentTransfer   PaymentMethod = "TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCardDebit, PaymentCardCredit, PaymentAccount, PaymentTransfer:
		return true
	}
	return false
}

// AllPaymentMethods is the fixed iteration order for per-method summary rows.
var AllPaymentMethods = []PaymentMethod{
	PaymentCash, PaymentCardDebit, PaymentCardCredit, PaymentAccount, PaymentTransfer,
}

// AllMovementTypes is the fixed iteration order for per-type totals.
var AllMovementTypes = []MovementType{
	MovementIncome, MovementExpense, MovementSale, MovementRefund,
}
