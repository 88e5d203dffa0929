package services

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"allo/internal/config"
)

type EmailService interface {
	SendOTPEmail(to, code string) error
}

type emailService struct {
	appName  string
	host     string
	port     int
	username string
	password string
}

func NewEmailService(cfg *config.Config) EmailService {
	return &emailService{
		appName:  cfg.AppName,
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (e *emailService) SendOTPEmail(to, code string) error {
	// Local development fallback: without SMTP credentials the code is
	// only observable in the logs, and sending still succeeds.
	if e.username == "" || e.password == "" {
		log.Info().Str("email", to).Str("code", code).Msg("No SMTP configured, logging OTP instead of sending")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Your %s login code", e.appName))
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Your one-time login code is:</p>"+
			"<p style=\"font-size:24px;font-weight:bold;letter-spacing:4px;\">%s</p>"+
			"<p style=\"color:#888;\">This code expires in 10 minutes.</p>", code))

	d := gomail.NewDialer(e.host, e.port, e.username, e.password)
	if err := d.DialAndSend(m); err != nil {
		return err
	}
	return nil
}
