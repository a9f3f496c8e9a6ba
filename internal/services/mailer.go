package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/diewo77/compta-boucherie/internal/i18n"
)

// ErrMailerNotConfigured is returned when no email function URL is set.
var ErrMailerNotConfigured = errors.New("mailer: MAILER_URL not configured")

// Mailer delegates email delivery to the external serverless function; the
// application never speaks SMTP itself. One POST per export, no retry.
type Mailer struct {
	URL    string
	APIKey string
	Client *http.Client
}

func NewMailer(url, apiKey string) *Mailer {
	return &Mailer{URL: url, APIKey: apiKey, Client: &http.Client{Timeout: 10 * time.Second}}
}

type exportMessage struct {
	To      string          `json:"to"`
	Subject string          `json:"subject"`
	Summary *MonthlySummary `json:"summary"`
}

// SendExport posts the monthly summary to the email function. Any non-2xx
// response is an error for the caller to surface.
func (m *Mailer) SendExport(ctx context.Context, to string, summary *MonthlySummary) error {
	if m.URL == "" {
		return ErrMailerNotConfigured
	}
	if to == "" {
		return errors.New("mailer: no recipient configured")
	}
	subject := fmt.Sprintf("%s %s", i18n.T("fr", "export_subject"), summary.Mois)
	body, err := json.Marshal(exportMessage{To: to, Subject: subject, Summary: summary})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.APIKey)
	}
	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mailer: unexpected status %d", resp.StatusCode)
	}
	return nil
}
