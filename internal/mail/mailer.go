package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers transactional email. Sent reports delivery so callers
// can log a failure without aborting the surrounding operation.
type Mailer interface {
	SendInvitation(to string, organizationName string, inviteLink string) bool
	SendPasswordReset(to string, resetLink string) bool
}

type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(host string, port int, username string, password string, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (mailer *SMTPMailer) SendInvitation(to string, organizationName string, inviteLink string) bool {
	subject := fmt.Sprintf("You have been invited to join %s", organizationName)
	body := fmt.Sprintf(
		"You have been invited to join %s on Pulseboard.\n\nAccept the invitation here: %s\n\nThe invitation expires in 7 days.",
		organizationName, inviteLink,
	)
	return mailer.send(to, subject, body)
}

func (mailer *SMTPMailer) SendPasswordReset(to string, resetLink string) bool {
	body := fmt.Sprintf(
		"A password reset was requested for your Pulseboard account.\n\nReset your password here: %s\n\nThe link expires in 1 hour. If you did not request this, ignore this message.",
		resetLink,
	)
	return mailer.send(to, "Reset your Pulseboard password", body)
}

func (mailer *SMTPMailer) send(to string, subject string, body string) bool {
	if !mailer.configured() {
		// No SMTP host configured; log the content and report success so
		// development flows keep working.
		log.Printf("mail (console fallback) to=%s subject=%q\n%s", to, subject, body)
		return true
	}

	message := strings.Join([]string{
		"From: " + mailer.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", mailer.host, mailer.port)
	var authentication smtp.Auth
	if mailer.username != "" {
		authentication = smtp.PlainAuth("", mailer.username, mailer.password, mailer.host)
	}
	if err := smtp.SendMail(addr, authentication, mailer.from, []string{to}, []byte(message)); err != nil {
		log.Printf("mail delivery to %s failed: %v", to, err)
		return false
	}
	return true
}

func (mailer *SMTPMailer) configured() bool {
	return mailer.host != ""
}
