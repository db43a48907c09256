package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/XiaoConstantine/evolve-go/pkg/errors"
)

var validate = validator.New()

// Validate checks field ranges and the cross-field island sizing rule. A
// failure here is a configuration error: no run state has been created yet.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return errors.WithFields(
				errors.New(errors.InvalidConfiguration, "invalid configuration"),
				errors.Fields{"field": first.Field(), "constraint": first.Tag()},
			)
		}
		return errors.Wrap(err, errors.InvalidConfiguration, "invalid configuration")
	}

	// Every island must receive at least one candidate.
	if c.PopulationSize < c.NumIslands {
		return errors.WithFields(
			errors.New(errors.InvalidConfiguration, "population size must cover all islands"),
			errors.Fields{
				"population_size": c.PopulationSize,
				"num_islands":     c.NumIslands,
			},
		)
	}

	return nil
}
