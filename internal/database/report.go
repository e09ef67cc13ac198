package database

import (
	"errors"

	"github.com/rs/zerolog"
)

// Report translates err and logs it: missing rows and rule violations at warn
// level, broken inheritance chains and storage failures at error level.
func Report(logger zerolog.Logger, op string, err error) error {
	err = Translate(op, err)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrConsistency):
		logger.Error().Err(err).Str("op", op).Msg("consistency failure")
	case errors.Is(err, ErrNotFound):
		logger.Warn().Err(err).Str("op", op).Msg("record not found")
	case errors.Is(err, ErrConflict), errors.Is(err, ErrMissingReference), errors.Is(err, ErrInvalidPosition):
		logger.Warn().Err(err).Str("op", op).Msg("operation rejected")
	default:
		logger.Error().Err(err).Str("op", op).Msg("storage failure")
	}
	return err
}
