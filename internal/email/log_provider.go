package email

import (
	"context"
	"strings"

	"storefront_backend/internal/logger"
)

// LogProvider пишет письма в лог вместо отправки. Используется в разработке.
type LogProvider struct{}

func (LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "email not sent (log provider)",
		"to", strings.Join(email.To, ","),
		"subject", email.Subject,
		"body", email.HTMLBody+email.Body,
	)
	return nil
}

func (LogProvider) Validate() error { return nil }
