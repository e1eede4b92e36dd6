package am

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/enginebind/bindgen"
	"github.com/teranos/enginebind/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.API.Schema == "" {
		return errors.New("api.schema cannot be empty")
	}
	if c.API.Root == "" {
		return errors.New("api.root cannot be empty")
	}

	if c.API.VersionConstraint != "" {
		if _, err := semver.NewConstraint(c.API.VersionConstraint); err != nil {
			return errors.Wrapf(err, "api.version_constraint %q", c.API.VersionConstraint)
		}
	}

	// Workers: 0 = one per CPU, negative = invalid
	if c.Generate.Workers < 0 {
		return errors.Newf("generate.workers must be >= 0, got %d", c.Generate.Workers)
	}

	if c.Output.Package == "" {
		return errors.New("output.package cannot be empty")
	}
	if c.Output.TableName == "" {
		return errors.New("output.table_name cannot be empty")
	}

	owned := make(map[string]bool, len(c.Ownership.Owned))
	for _, p := range c.Ownership.Owned {
		if err := bindgen.ValidatePattern(p); err != nil {
			return errors.Wrap(err, "ownership.owned")
		}
		owned[p] = true
	}
	for _, p := range c.Ownership.Borrowed {
		if err := bindgen.ValidatePattern(p); err != nil {
			return errors.Wrap(err, "ownership.borrowed")
		}
		if owned[p] {
			return errors.Newf("ownership pattern %q is listed as both owned and borrowed", p)
		}
	}

	return nil
}
