package email

import (
	"context"
	"fmt"
)

// Provider доставляет готовое письмо.
type Provider interface {
	Send(ctx context.Context, email *Email) error
	Validate() error
}

type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}

// Mailer используется сервисами для отправки транзакционных писем.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// Service рендерит шаблоны и передаёт письмо в Provider.
type Service struct {
	provider Provider
	renderer TemplateRenderer
	from     string
}

func NewService(provider Provider, renderer TemplateRenderer, from string) *Service {
	return &Service{provider: provider, renderer: renderer, from: from}
}

// SendTemplate рендерит шаблон templateName в HTML и отправляет письмо.
func (s *Service) SendTemplate(ctx context.Context, to []string, subject, templateName string, data TemplateData) error {
	html, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	return s.provider.Send(ctx, &Email{
		From:     s.from,
		To:       to,
		Subject:  subject,
		HTMLBody: html,
	})
}

func (s *Service) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	return s.SendTemplate(ctx, []string{to}, "Storefront Password Recovery", TemplatePasswordReset, TemplateData{
		"Name":     name,
		"ResetURL": resetURL,
	})
}
