package mailerrepo

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Repo sends verification emails.
type Repo interface {
	SendVerificationCode(toEmail, code string) error
}

type smtpRepo struct {
	server string
	port   int
	user   string
	pass   string
}

func NewSMTP(server string, port int, user, pass string) Repo {
	return &smtpRepo{server: server, port: port, user: user, pass: pass}
}

func (s *smtpRepo) SendVerificationCode(toEmail, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.user)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Ludus - código de verificação")
	m.SetBody("text/plain", fmt.Sprintf("Seu código de verificação Ludus é: %s", code))

	d := gomail.NewDialer(s.server, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}
