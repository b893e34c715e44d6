package services

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

// storeError logs a raw store failure and hides it behind domain.ErrStore.
// Domain errors raised by the store (not found, conflicts) pass through.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		return err
	}
	log.Error().Err(err).Str("op", op).Msg("store operation failed")
	return fmt.Errorf("%s: %w", op, domain.ErrStore)
}
