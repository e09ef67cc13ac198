// Package services holds the operations the CLI calls: input validation,
// uniqueness pre-checks, repository calls and the audit trail.
package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/gymflow/internal/audit"
	"github.com/mrlokans/gymflow/internal/entities"
)

type Option func(*base)

// WithClock replaces the source of "today" used for defaults and derived fields.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

// WithValidator shares one validator between services.
func WithValidator(v *Validator) Option {
	return func(b *base) {
		b.validator = v
	}
}

type base struct {
	validator *Validator
	audit     *audit.Service
	logger    zerolog.Logger
	now       func() time.Time
}

func newBase(auditor *audit.Service, logger zerolog.Logger, name string, opts []Option) base {
	b := base{
		audit:  auditor,
		logger: logger.With().Str("service", name).Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.validator == nil {
		b.validator = NewValidator()
	}
	return b
}

func (b base) today() time.Time {
	return entities.DateOf(b.now())
}
