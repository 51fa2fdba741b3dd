package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/kaumanns/evolve-a-query/pkg/evolution"
)

// validateRecombinationMode accepts any mode name the evolution package can
// parse, keeping config and engine mode sets in lockstep.
func validateRecombinationMode(fl validator.FieldLevel) bool {
	_, err := evolution.ParseRecombinationMode(fl.Field().String())
	return err == nil
}
