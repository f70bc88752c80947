package email

import "time"

const (
	defaultSMTPPort    = 587
	defaultSMTPTimeout = 30 * time.Second
)

// SMTPConfig содержит параметры подключения к SMTP серверу.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// withDefaults возвращает копию с заполненными портом и таймаутом.
func (c SMTPConfig) withDefaults() *SMTPConfig {
	if c.Port == 0 {
		c.Port = defaultSMTPPort
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultSMTPTimeout
	}
	return &c
}
