package worker

// report_worker.go
// Processes session_report jobs: builds the reconciliation summary for a
// closed session, renders the Z-report PDF and mails it to the supervisor
// address. SMTP goes through the circuit breaker so a downed relay fails
// fast instead of stalling the pool.

import (
	"context"
	"encoding/json"
	"fmt"

	"mesapos/internal/infra"
	"mesapos/internal/model"
	"mesapos/internal/repository"
	"mesapos/internal/service"

	"github.com/rs/zerolog/log"
)

type ReportWorker struct {
	sessions    repository.SessionRepository
	registers   repository.RegisterRepository
	mailer      *infra.Mailer
	cb          *infra.CircuitBreaker
	storagePath string
	reportEmail string
}

func NewReportWorker(sessions repository.SessionRepository, registers repository.RegisterRepository,
	mailer *infra.Mailer, cb *infra.CircuitBreaker, storagePath, reportEmail string) *ReportWorker {
	return &ReportWorker{
		sessions:    sessions,
		registers:   registers,
		mailer:      mailer,
		cb:          cb,
		storagePath: storagePath,
		reportEmail: reportEmail,
	}
}

// Process renders and sends the Z-report. A returned error re-enqueues the
// job (then DLQ); a nil return acknowledges it.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload SessionReportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return nil // malformed payloads never become processable — drop
	}

	session, err := w.sessions.FindByID(ctx, payload.SessionID)
	if err != nil {
		return fmt.Errorf("report_worker: load session %s: %w", payload.SessionID, err)
	}
	if session.Status != model.SessionClosed {
		log.Warn().Str("session_id", session.ID.String()).Msg("report_worker: session not closed — skipping")
		return nil
	}

	register, err := w.registers.FindByID(ctx, session.CashRegisterID)
	if err != nil {
		return fmt.Errorf("report_worker: load register %s: %w", session.CashRegisterID, err)
	}

	summary := service.Summarize(session, session.Movements)
	pdfPath, err := infra.GenerateSessionReportPDF(session, register.Name, summary, w.storagePath)
	if err != nil {
		return fmt.Errorf("report_worker: render pdf: %w", err)
	}

	if w.reportEmail == "" || !w.mailer.Configured() {
		log.Info().Str("pdf", pdfPath).Msg("report_worker: mail not configured — report stored only")
		return nil
	}

	subject := fmt.Sprintf("Z-report %s — %s", register.Name, session.ClosedAt.Format("02/01/2006"))
	body := fmt.Sprintf("Session %s closed with expected cash $%s, counted $%s, variance $%s.",
		session.ID, session.ExpectedCash.StringFixed(2), session.CountedCash.StringFixed(2), session.Variance.StringFixed(2))

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendReport(w.reportEmail, subject, body, pdfPath)
	})
	if sendErr != nil {
		return fmt.Errorf("report_worker: send report: %w", sendErr)
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Str("to", w.reportEmail).
		Msg("report_worker: Z-report sent")
	return nil
}
