package tests

import (
	"context"
	"testing"

	"mesapos/internal/dto"
	"mesapos/internal/model"
	"mesapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openOn(t *testing.T, regSvc service.RegisterService, sessSvc service.SessionService,
	branch uuid.UUID, name string, opening int64) (*model.CashRegister, *model.CashRegisterSession) {
	t.Helper()
	reg, err := regSvc.Create(context.Background(), branch, dto.CreateRegisterRequest{Name: name})
	require.NoError(t, err)
	session, err := sessSvc.Open(context.Background(), uuid.New(), dto.OpenSessionRequest{
		CashRegisterID: reg.ID.String(),
		OpeningAmount:  decimal.NewFromInt(opening),
	})
	require.NoError(t, err)
	return reg, session
}

func TestOpenSession(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 5000)

	assert.Equal(t, model.SessionOpen, session.Status)
	assert.Equal(t, "5000", session.OpeningAmount.String())
	assert.False(t, session.OpenedAt.IsZero())
}

func TestOpenSessionRegisterNotFound(t *testing.T) {
	_, sessSvc, _ := newServices()
	_, err := sessSvc.Open(context.Background(), uuid.New(), dto.OpenSessionRequest{
		CashRegisterID: uuid.NewString(),
		OpeningAmount:  decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, service.ErrRegisterNotFound)
}

func TestOpenSessionInactiveRegister(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	reg, err := regSvc.Create(context.Background(), uuid.New(), dto.CreateRegisterRequest{Name: "Caja 1"})
	require.NoError(t, err)

	inactive := false
	_, err = regSvc.Update(context.Background(), reg.ID, dto.UpdateRegisterRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = sessSvc.Open(context.Background(), uuid.New(), dto.OpenSessionRequest{
		CashRegisterID: reg.ID.String(),
		OpeningAmount:  decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, service.ErrRegisterInactive)
}

func TestOpenSessionAlreadyOpen(t *testing.T) {
	regSvc, sessSvc, store := newServices()
	reg, _ := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 1000)

	_, err := sessSvc.Open(context.Background(), uuid.New(), dto.OpenSessionRequest{
		CashRegisterID: reg.ID.String(),
		OpeningAmount:  decimal.NewFromInt(2000),
	})
	assert.ErrorIs(t, err, service.ErrSessionAlreadyOpen)

	// The invariant holds: never more than one OPEN session per register
	open := 0
	for _, s := range store.sessions {
		if s.CashRegisterID == reg.ID && s.Status == model.SessionOpen {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

func TestReopenAfterClose(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	reg, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 1000)

	_, err := sessSvc.Close(context.Background(), session.ID, uuid.New(), dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	// CLOSED is terminal for that session, but the register restarts
	again, err := sessSvc.Open(context.Background(), uuid.New(), dto.OpenSessionRequest{
		CashRegisterID: reg.ID.String(),
		OpeningAmount:  decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, again.ID)
}

func TestCloseSessionShortageAndOverage(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	user := uuid.New()

	// Expected cash will be 140: 100 + 50 (CASH sale) − 20 (CASH refund) + 10 (CASH income),
	// with the card sale excluded from the drawer balance.
	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 100)
	_, err := sessSvc.RecordSale(context.Background(), session.ID, user, model.PaymentCash, decimal.NewFromInt(50), nil)
	require.NoError(t, err)
	_, err = sessSvc.RecordSale(context.Background(), session.ID, user, model.PaymentCardDebit, decimal.NewFromInt(30), nil)
	require.NoError(t, err)
	_, err = sessSvc.RecordRefund(context.Background(), session.ID, user, model.PaymentCash, decimal.NewFromInt(20), nil)
	require.NoError(t, err)
	_, err = sessSvc.AddMovement(context.Background(), session.ID, user,
		model.MovementIncome, model.PaymentCash, decimal.NewFromInt(10), "change float top-up", nil)
	require.NoError(t, err)

	closed, err := sessSvc.Close(context.Background(), session.ID, user, dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(135),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionClosed, closed.Status)
	assert.Equal(t, "140", closed.ExpectedCash.String())
	assert.Equal(t, "-5", closed.Variance.String()) // shortage

	// Overage on a second identical run
	_, session2 := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 2", 100)
	_, err = sessSvc.RecordSale(context.Background(), session2.ID, user, model.PaymentCash, decimal.NewFromInt(40), nil)
	require.NoError(t, err)
	closed2, err := sessSvc.Close(context.Background(), session2.ID, user, dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(145),
	})
	require.NoError(t, err)
	assert.Equal(t, "140", closed2.ExpectedCash.String())
	assert.Equal(t, "5", closed2.Variance.String()) // overage
}

func TestCloseSessionTwice(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 100)

	_, err := sessSvc.Close(context.Background(), session.ID, uuid.New(), dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Closing twice is an error, not a no-op
	_, err = sessSvc.Close(context.Background(), session.ID, uuid.New(), dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, service.ErrSessionAlreadyClosed)
}

func TestCloseSessionNotFound(t *testing.T) {
	_, sessSvc, _ := newServices()
	_, err := sessSvc.Close(context.Background(), uuid.New(), uuid.New(), dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestCurrentSession(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	reg, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 300)

	current, err := sessSvc.CurrentSession(context.Background(), reg.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, session.ID, current.ID)

	_, err = sessSvc.Close(context.Background(), session.ID, uuid.New(), dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	current, err = sessSvc.CurrentSession(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestEndToEndReconciliation(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	user := uuid.New()

	_, session := openOn(t, regSvc, sessSvc, uuid.New(), "Caja 1", 200)

	_, err := sessSvc.RecordSale(context.Background(), session.ID, user, model.PaymentCash, decimal.NewFromInt(75), nil)
	require.NoError(t, err)
	_, err = sessSvc.RecordSale(context.Background(), session.ID, user, model.PaymentCardCredit, decimal.NewFromInt(40), nil)
	require.NoError(t, err)
	_, err = sessSvc.AddMovement(context.Background(), session.ID, user,
		model.MovementExpense, model.PaymentCash, decimal.NewFromInt(15), "supplier petty cash", nil)
	require.NoError(t, err)

	closed, err := sessSvc.Close(context.Background(), session.ID, user, dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(260),
	})
	require.NoError(t, err)

	// 200 + 75 − 15, the card sale never touches the drawer
	assert.Equal(t, "260", closed.ExpectedCash.String())
	assert.True(t, closed.Variance.IsZero())
}

func TestHistoryListsOnlyClosed(t *testing.T) {
	regSvc, sessSvc, _ := newServices()
	branch := uuid.New()
	user := uuid.New()

	_, open := openOn(t, regSvc, sessSvc, branch, "Caja 1", 100)
	_, toClose := openOn(t, regSvc, sessSvc, branch, "Caja 2", 100)

	_, err := sessSvc.Close(context.Background(), toClose.ID, user, dto.CloseSessionRequest{
		CountedCash: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	page, err := sessSvc.History(context.Background(), branch, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, toClose.ID, page.Data[0].ID)
	assert.NotEqual(t, open.ID, page.Data[0].ID)
	assert.EqualValues(t, 1, page.Total)
}
