package tests

import (
	"context"
	"testing"
	"time"

	"mesapos/internal/dto"
	"mesapos/internal/model"
	"mesapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMovement(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	user := uuid.New()
	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 100)

	m, err := sessSvc.AddMovement(context.Background(), session.ID, user,
		model.MovementIncome, model.PaymentCash, decimal.NewFromInt(25), "owner float", nil)
	require.NoError(t, err)
	assert.Equal(t, session.ID, m.SessionID)
	assert.Equal(t, user, m.CreatedBy)
	assert.Equal(t, "owner float", m.Description)
	assert.NotEqual(t, uuid.Nil, m.ID)
}

func TestAddMovementRejectsNonPositiveAmount(t *testing.T) {
	regSvc, sessSvc, store := newServices()
	user := uuid.New()
	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 100)

	_, err := sessSvc.AddMovement(context.Background(), session.ID, user,
		model.MovementExpense, model.PaymentCash, decimal.Zero, "nothing", nil)
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = sessSvc.AddMovement(context.Background(), session.ID, user,
		model.MovementExpense, model.PaymentCash, decimal.NewFromInt(-10), "negative", nil)
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	// A refund of a negative sale is modelled as a REFUND, never a negative amount
	assert.Empty(t, store.movements)
}

func TestAddMovementRejectsUnknownEnums(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 100)

	_, err := sessSvc.AddMovement(context.Background(), session.ID, uuid.New(),
		model.MovementType("WITHDRAWAL"), model.PaymentCash, decimal.NewFromInt(5), "", nil)
	assert.ErrorIs(t, err, service.ErrInvalidMovement)

	_, err = sessSvc.AddMovement(context.Background(), session.ID, uuid.New(),
		model.MovementIncome, model.PaymentMethod("CHEQUE"), decimal.NewFromInt(5), "", nil)
	assert.ErrorIs(t, err, service.ErrInvalidMovement)
}

func TestAddMovementToClosedSession(t *testing.T) {
	regSvc, sessSvc, store := newServices()
	user := uuid.New()
	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 100)

	closed, err := sessSvc.Close(context.Background(), session.ID, user, dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = sessSvc.AddMovement(context.Background(), session.ID, user,
		model.MovementIncome, model.PaymentCash, decimal.NewFromInt(50), "too late", nil)
	assert.ErrorIs(t, err, service.ErrSessionClosed)

	// The persisted reconciliation figures stay exactly as they were at close
	assert.Empty(t, store.movements)
	assert.Equal(t, "100", closed.ExpectedCash.String())
}

func TestAddMovementSessionNotFound(t *testing.T) {
	_, sessSvc, _ := newServices()
	_, err := sessSvc.AddMovement(context.Background(), uuid.New(), uuid.New(),
		model.MovementIncome, model.PaymentCash, decimal.NewFromInt(5), "", nil)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestRecordSaleAndRefund(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	user := uuid.New()
	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 100)

	orderID := uuid.New()
	sale, err := sessSvc.RecordSale(context.Background(), session.ID, user,
		model.PaymentCardDebit, decimal.NewFromInt(80), &orderID)
	require.NoError(t, err)
	assert.Equal(t, model.MovementSale, sale.Type)
	assert.Equal(t, &orderID, sale.OrderID)
	assert.Contains(t, sale.Description, orderID.String())

	refund, err := sessSvc.RecordRefund(context.Background(), session.ID, user,
		model.PaymentCash, decimal.NewFromInt(12), nil)
	require.NoError(t, err)
	assert.Equal(t, model.MovementRefund, refund.Type)
	assert.Nil(t, refund.OrderID)
	assert.Equal(t, "Refund settlement", refund.Description)
}

func TestListMovements(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	user := uuid.New()
	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 100)

	for i := int64(1); i <= 3; i++ {
		_, err := sessSvc.AddMovement(context.Background(), session.ID, user,
			model.MovementIncome, model.PaymentCash, decimal.NewFromInt(i), "tip jar", nil)
		require.NoError(t, err)
	}

	movs, err := sessSvc.ListMovements(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 3)
}

func TestListManualMovements(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	branch := uuid.New()
	user := uuid.New()
	_, session := openOn(t, regSvc, sessSvc, branch, "Caja 1", 100)

	// Settlements must never surface in the manual-movement audit view
	_, err := sessSvc.RecordSale(context.Background(), session.ID, user, model.PaymentCash, decimal.NewFromInt(999), nil)
	require.NoError(t, err)

	_, err = sessSvc.AddMovement(context.Background(), session.ID, user,
		model.MovementIncome, model.PaymentCash, decimal.NewFromInt(10), "float", nil)
	require.NoError(t, err)
	_, err = sessSvc.AddMovement(context.Background(), session.ID, user,
		model.MovementExpense, model.PaymentCash, decimal.NewFromInt(20), "ice delivery", nil)
	require.NoError(t, err)

	page, err := sessSvc.ListManualMovements(context.Background(), dto.ManualMovementFilter{
		BranchID: branch, Limit: 50,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Data, 2)
	assert.False(t, page.HasMore)

	// Type filter
	expense := model.MovementExpense
	page, err = sessSvc.ListManualMovements(context.Background(), dto.ManualMovementFilter{
		BranchID: branch, Type: &expense, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "ice delivery", page.Data[0].Description)

	// Register filter against a register with no manual movements
	other, err := regSvc.Create(context.Background(), branch, dto.CreateRegisterRequest{Name: "Caja 2"})
	require.NoError(t, err)
	page, err = sessSvc.ListManualMovements(context.Background(), dto.ManualMovementFilter{
		BranchID: branch, CashRegisterID: &other.ID, Limit: 50,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)

	// Date window excluding everything
	past := time.Now().Add(-48 * time.Hour)
	alsoPast := past.Add(time.Hour)
	page, err = sessSvc.ListManualMovements(context.Background(), dto.ManualMovementFilter{
		BranchID: branch, DateFrom: &past, DateTo: &alsoPast, Limit: 50,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
}

func TestListManualMovementsPagination(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	branch := uuid.New()
	user := uuid.New()
	_, session := openOn(t, regSvc, sessSvc, branch, "Caja 1", 0)

	for i := 0; i < 5; i++ {
		_, err := sessSvc.AddMovement(context.Background(), session.ID, user,
			model.MovementIncome, model.PaymentCash, decimal.NewFromInt(1), "float", nil)
		require.NoError(t, err)
	}

	page, err := sessSvc.ListManualMovements(context.Background(), dto.ManualMovementFilter{
		BranchID: branch, Limit: 2, Offset: 0,
	})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.EqualValues(t, 5, page.Total)
	assert.True(t, page.HasMore)

	page, err = sessSvc.ListManualMovements(context.Background(), dto.ManualMovementFilter{
		BranchID: branch, Limit: 2, Offset: 4,
	})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.False(t, page.HasMore)
}
