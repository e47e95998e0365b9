package email

import (
	"context"
)

type Service interface {
	SendCustom(ctx context.Context, to string, subject string, content string) error
}
