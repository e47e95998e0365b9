package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

type noopService struct{}

// NewNoopService returns a sender that only logs. Used in development and
// whenever SMTP is not configured.
func NewNoopService() Service {
	return &noopService{}
}

func (s *noopService) SendCustom(_ context.Context, to, subject, _ string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("email sending disabled, skipping")
	return nil
}
