package usecase

import (
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/bibbank/credit-module/internal/application/usecase")

// Clock returns the current time. Use cases default to time.Now in UTC.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }
