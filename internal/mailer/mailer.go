// Package mailer implements the operator notifications over SMTP. One
// dispatch mailbox receives submission notices; decision notices go to the
// same mailbox until driver e-mail addresses are part of the token claims.
package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// Mailer sends notification mails through a single SMTP account.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string // dispatch mailbox
}

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// New creates a Mailer. The connection is dialed per message; gomail keeps
// no persistent state between sends.
func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

func (m *Mailer) send(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer.Mailer.send: %w", err)
	}
	return nil
}

// WorkRecordSubmitted announces a new pending work record to dispatch.
func (m *Mailer) WorkRecordSubmitted(_ context.Context, rec domain.WorkRecord) error {
	subject := fmt.Sprintf("Neuer Arbeitsnachweis: Tour %s", rec.TourNumber)
	body := fmt.Sprintf(
		"Fahrer %s hat einen Arbeitsnachweis eingereicht.\n\nTour: %s\nDatum: %s\nKilometer: %.0f\nWartezeit: %s\n",
		rec.DriverID, rec.TourNumber, rec.Date.Format("02.01.2006"), rec.DrivenKm, rec.Waiting)
	return m.send(subject, body)
}

// WorkRecordDecided informs about an approval decision.
func (m *Mailer) WorkRecordDecided(_ context.Context, rec domain.WorkRecord) error {
	subject := fmt.Sprintf("Arbeitsnachweis %s: %s", rec.TourNumber, statusLabel(string(rec.Status)))
	body := fmt.Sprintf(
		"Der Arbeitsnachweis für Tour %s vom %s wurde auf %q gesetzt.\n",
		rec.TourNumber, rec.Date.Format("02.01.2006"), rec.Status)
	return m.send(subject, body)
}

// ExpenseSubmitted announces a new pending expense record to dispatch.
func (m *Mailer) ExpenseSubmitted(_ context.Context, rec domain.ExpenseRecord) error {
	subject := fmt.Sprintf("Neuer Auslagennachweis: Tour %s", rec.TourNumber)
	body := fmt.Sprintf(
		"Fahrer %s hat eine Auslage eingereicht.\n\nTour: %s\nKategorie: %s\nBetrag: %.2f EUR\n",
		rec.DriverID, rec.TourNumber, rec.Category, float64(rec.AmountCents)/100)
	return m.send(subject, body)
}

// ExpenseDecided informs about an approval decision.
func (m *Mailer) ExpenseDecided(_ context.Context, rec domain.ExpenseRecord) error {
	subject := fmt.Sprintf("Auslagennachweis %s: %s", rec.TourNumber, statusLabel(string(rec.Status)))
	body := fmt.Sprintf(
		"Die Auslage (%s, %.2f EUR) für Tour %s wurde auf %q gesetzt.\n",
		rec.Category, float64(rec.AmountCents)/100, rec.TourNumber, rec.Status)
	return m.send(subject, body)
}

// ProtocolSubmitted announces a completed handover protocol.
func (m *Mailer) ProtocolSubmitted(_ context.Context, p domain.TourProtocol, newDamages int) error {
	subject := fmt.Sprintf("Protokoll abgeschlossen: %s", phaseLabel(p.Phase))
	body := fmt.Sprintf(
		"Fahrer %s hat das %s-Protokoll abgeschlossen.\n\nKilometerstand: %d\nNeue Schäden: %d\nErgebnis: %s\n",
		p.DriverID, phaseLabel(p.Phase), p.OdometerKm, newDamages, p.Outcome)
	return m.send(subject, body)
}

func statusLabel(status string) string {
	switch status {
	case "approved":
		return "genehmigt"
	case "rejected":
		return "abgelehnt"
	case "billed":
		return "abgerechnet"
	case "paid":
		return "ausgezahlt"
	}
	return status
}

func phaseLabel(phase domain.ProtocolPhase) string {
	if phase == domain.PhaseDropoff {
		return "Abgabe"
	}
	return "Übernahme"
}
