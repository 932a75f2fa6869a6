package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"sync"
	"time"

	"github.com/nordkaliber/checkout/internal/config"
	"github.com/nordkaliber/checkout/internal/models"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends a single email. Delivery is an external collaborator; the
// dispatcher only cares about success or failure.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer implements Mailer over SMTP
type SMTPMailer struct {
	cfg config.EmailConfig
}

// NewSMTPMailer creates a mailer for the configured SMTP account.
func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one HTML email through the configured SMTP server.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("email credentials not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromAddress)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}

// EmailReport aggregates the outcome of both notification sends.
type EmailReport struct {
	CustomerEmailSent   bool `json:"customerEmailSent"`
	ProductionEmailSent bool `json:"productionEmailSent"`
}

// NotificationService dispatches order notifications
type NotificationService interface {
	SendOrderEmails(order *models.Order) EmailReport
}

// NotificationDispatcher sends the customer confirmation and the internal
// production alert for an order. Both sends run independently; one failing
// or hanging must not block the other, and nothing escapes this boundary.
type NotificationDispatcher struct {
	mailer          Mailer
	productionEmail string
}

// NewNotificationDispatcher creates a new notification dispatcher
func NewNotificationDispatcher(mailer Mailer, productionEmail string) *NotificationDispatcher {
	return &NotificationDispatcher{
		mailer:          mailer,
		productionEmail: productionEmail,
	}
}

// SendOrderEmails attempts both notification sends concurrently and reports
// both outcomes.
func (d *NotificationDispatcher) SendOrderEmails(order *models.Order) EmailReport {
	var report EmailReport
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		report.CustomerEmailSent = d.trySend(func() error {
			return d.sendCustomerConfirmation(order)
		})
	}()
	go func() {
		defer wg.Done()
		report.ProductionEmailSent = d.trySend(func() error {
			return d.sendProductionAlert(order)
		})
	}()
	wg.Wait()

	log.Printf("Order %s notifications: customer=%v production=%v",
		order.ID, report.CustomerEmailSent, report.ProductionEmailSent)

	return report
}

// trySend runs a send and converts errors and panics into a failed outcome.
func (d *NotificationDispatcher) trySend(send func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Notification send panicked: %v", r)
			ok = false
		}
	}()

	if err := send(); err != nil {
		log.Printf("Notification send failed: %v", err)
		return false
	}
	return true
}

func (d *NotificationDispatcher) sendCustomerConfirmation(order *models.Order) error {
	if order.Customer.Email == "" {
		return fmt.Errorf("order %s has no customer email", order.ID)
	}

	body, err := renderEmail(customerConfirmationTmpl, order)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Orderbekräftelse - %s", order.ID)
	return d.mailer.Send(order.Customer.Email, subject, body)
}

func (d *NotificationDispatcher) sendProductionAlert(order *models.Order) error {
	if d.productionEmail == "" {
		return fmt.Errorf("production manager email not configured")
	}

	body, err := renderEmail(productionAlertTmpl, order)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("NY ORDER - %s", order.ID)
	if order.HasSpecialRequest() {
		subject = fmt.Sprintf("NY ORDER MED SPECIALFÖRFRÅGAN - %s", order.ID)
	}
	return d.mailer.Send(d.productionEmail, subject, body)
}

type emailData struct {
	Order *models.Order
	Date  string
}

func renderEmail(tmpl *template.Template, order *models.Order) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, emailData{
		Order: order,
		Date:  time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email body: %w", err)
	}
	return buf.String(), nil
}

var customerConfirmationTmpl = template.Must(template.New("customer").Parse(`<!DOCTYPE html>
<html>
<body>
  <h1>Tack för din beställning!</h1>
  <p>Hej {{.Order.Customer.Name}},</p>
  <p>Vi har mottagit din order och börjar tillverkningen så snart som möjligt.</p>
  <p><strong>Ordernummer:</strong> {{.Order.ID}}<br>
     <strong>Orderdatum:</strong> {{.Date}}</p>
  <table>
    <tr><th>Kaliber</th><th>Färg</th><th>Initialer</th><th>Pris</th></tr>
    {{range .Order.Items}}
    <tr>
      <td>{{.Caliber}}</td>
      <td>{{.PrimaryColor}}/{{.SecondaryColor}}</td>
      <td>{{if .Initials}}{{.Initials}}{{else}}-{{end}}</td>
      <td>{{.Price}} kr</td>
    </tr>
    {{end}}
  </table>
  <p><strong>Totalt: {{.Order.Total}} kr</strong></p>
  <p>Med vänliga hälsningar,<br>Nordkaliber</p>
</body>
</html>`))

var productionAlertTmpl = template.Must(template.New("production").Parse(`<!DOCTYPE html>
<html>
<body>
  <h1>{{if .Order.HasSpecialRequest}}NY ORDER MED SPECIALFÖRFRÅGAN{{else}}NY ORDER{{end}}</h1>
  {{if .Order.HasSpecialRequest}}<p><strong>Denna order har specialförfrågningar som kräver extra uppmärksamhet.</strong></p>{{end}}
  <p><strong>Ordernummer:</strong> {{.Order.ID}}<br>
     <strong>Orderdatum:</strong> {{.Date}}<br>
     <strong>Kund:</strong> {{.Order.Customer.Name}} ({{.Order.Customer.Email}})<br>
     <strong>Telefon:</strong> {{if .Order.Customer.Phone}}{{.Order.Customer.Phone}}{{else}}Ej angivet{{end}}</p>
  <table>
    <tr><th>Kaliber</th><th>Färg</th><th>Initialer</th><th>Pris</th><th>Specialförfrågan</th></tr>
    {{range .Order.Items}}
    <tr>
      <td>{{.Caliber}}</td>
      <td>{{.PrimaryColor}}/{{.SecondaryColor}}</td>
      <td>{{if .Initials}}{{.Initials}}{{else}}-{{end}}</td>
      <td>{{.Price}} kr</td>
      <td>{{if .SpecialRequest}}{{.SpecialRequest}}{{else}}-{{end}}</td>
    </tr>
    {{end}}
  </table>
  <p><strong>Totalt: {{.Order.Total}} kr</strong></p>
  <p>Leveransadress: {{.Order.Customer.Address}}</p>
</body>
</html>`))
