package service

// Reconciliation engine: pure aggregation over a session's movement list.
// Only CASH-method movements affect the expected drawer balance — the
// physical till holds currency, so card/account/transfer settlements are
// reporting-only. Direction comes from the movement type: INCOME/SALE add,
// EXPENSE/REFUND subtract.

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"mesapos/internal/model"
)

// MethodTotals accumulates the per-payment-method breakdown of a session.
type MethodTotals struct {
	Method  model.PaymentMethod `json:"method"`
	Income  decimal.Decimal     `json:"income"`
	Expense decimal.Decimal     `json:"expense"`
	Net     decimal.Decimal     `json:"net"`
}

// SessionSummary is the full reconciliation report for a session. It can be
// produced at any time, not just at close; CountedCash/Variance are present
// only once the session is CLOSED.
type SessionSummary struct {
	SessionID     uuid.UUID                      `json:"session_id"`
	Status        model.SessionStatus            `json:"status"`
	OpeningAmount decimal.Decimal                `json:"opening_amount"`
	MovementCount int                            `json:"movement_count"`
	TotalsByType  map[model.MovementType]decimal.Decimal `json:"totals_by_type"`
	ByMethod      []MethodTotals                 `json:"by_method"`
	ExpectedCash  decimal.Decimal                `json:"expected_cash"`
	CountedCash   *decimal.Decimal               `json:"counted_cash,omitempty"`
	Variance      *decimal.Decimal               `json:"variance,omitempty"`
}

// ExpectedCash computes the balance the physical till should contain:
//
//	openingAmount
//	  + Σ amount for CASH movements of type INCOME or SALE
//	  − Σ amount for CASH movements of type EXPENSE or REFUND
//
// Movements with an unrecognized type or method are excluded rather than
// raising; the write path rejects them, so hitting that branch means a
// data-integrity problem upstream.
func ExpectedCash(openingAmount decimal.Decimal, movements []model.CashMovement) decimal.Decimal {
	balance := openingAmount
	for _, m := range movements {
		if m.PaymentMethod != model.PaymentCash || !m.Type.Valid() {
			continue
		}
		if m.Type.AddsCash() {
			balance = balance.Add(m.Amount)
		} else {
			balance = balance.Sub(m.Amount)
		}
	}
	return balance
}

// Summarize aggregates a session's ledger into the reconciliation report.
func Summarize(session *model.CashRegisterSession, movements []model.CashMovement) *SessionSummary {
	byMethod := make(map[model.PaymentMethod]*MethodTotals, len(model.AllPaymentMethods))
	for _, pm := range model.AllPaymentMethods {
		byMethod[pm] = &MethodTotals{Method: pm}
	}
	byType := make(map[model.MovementType]decimal.Decimal, len(model.AllMovementTypes))
	for _, t := range model.AllMovementTypes {
		byType[t] = decimal.Zero
	}

	for _, m := range movements {
		if !m.Type.Valid() || !m.PaymentMethod.Valid() {
			log.Warn().
				Str("movement_id", m.ID.String()).
				Str("type", string(m.Type)).
				Str("payment_method", string(m.PaymentMethod)).
				Msg("movement with unrecognized type/method excluded from aggregates")
			continue
		}

		byType[m.Type] = byType[m.Type].Add(m.Amount)

		row := byMethod[m.PaymentMethod]
		if m.Type.AddsCash() {
			row.Income = row.Income.Add(m.Amount)
			row.Net = row.Net.Add(m.Amount)
		} else {
			row.Expense = row.Expense.Add(m.Amount)
			row.Net = row.Net.Sub(m.Amount)
		}
	}

	rows := make([]MethodTotals, 0, len(model.AllPaymentMethods))
	for _, pm := range model.AllPaymentMethods {
		rows = append(rows, *byMethod[pm])
	}

	summary := &SessionSummary{
		SessionID:     session.ID,
		Status:        session.Status,
		OpeningAmount: session.OpeningAmount,
		MovementCount: len(movements),
		TotalsByType:  byType,
		ByMethod:      rows,
		// expected cash is the CASH net plus the opening float
		ExpectedCash: session.OpeningAmount.Add(byMethod[model.PaymentCash].Net),
	}

	if session.Status == model.SessionClosed {
		summary.CountedCash = session.CountedCash
		summary.Variance = session.Variance
	}
	return summary
}
