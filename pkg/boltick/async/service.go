package async

import (
	"context"
	"time"
)

// Service is a background process that runs until its context is cancelled
type Service interface {
	Start(ctx context.Context, interval time.Duration) error
}
