package config

import (
	"errors"
	"fmt"
	"time"

	"scrollstory/internal/chart"
)

// Validate checks the story before anything is fetched or drawn. Errors are
// *chart.ConfigurationError.
func (c *Config) Validate() error {
	var errs []error
	add := func(i int, field, reason string, err error) {
		errs = append(errs, &chart.ConfigurationError{Chart: i, Field: field, Reason: reason, Err: err})
	}

	seen := make(map[string]bool)
	for _, r := range c.Regions {
		switch {
		case r.ID == "":
			add(-1, "regions", "region without id", nil)
		case seen[r.ID]:
			add(-1, "regions", fmt.Sprintf("duplicate region %q", r.ID), nil)
		case r.Width < 0 || r.Height < 0:
			add(-1, "regions", fmt.Sprintf("region %q has a negative size", r.ID), nil)
		}
		seen[r.ID] = true
	}

	for i, ch := range c.Charts {
		if _, err := chart.ParseKind(ch.Kind); err != nil {
			add(i, "kind", "", err)
		}
		if ch.Step < 0 {
			add(i, "step", fmt.Sprintf("step %d is negative", ch.Step), nil)
		} else if len(c.Steps) > 0 && ch.Step >= len(c.Steps) {
			add(i, "step", fmt.Sprintf("step %d is past the last of %d steps", ch.Step, len(c.Steps)), nil)
		}
		if ch.Region == "" {
			add(i, "region", "missing region", nil)
		} else if len(c.Regions) > 0 && !seen[ch.Region] {
			add(i, "region", fmt.Sprintf("region %q is not declared", ch.Region), nil)
		}
		if err := ch.Source.Validate(); err != nil {
			add(i, "source", "", err)
		}
	}

	for _, d := range []struct{ field, value string }{
		{"loader.timeout", c.Loader.Timeout},
		{"host.resize_debounce", c.Host.ResizeDebounce},
		{"host.frame_interval", c.Host.FrameInterval},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			add(-1, d.field, "", err)
		}
	}
	if c.Loader.Concurrency < 0 {
		add(-1, "loader.concurrency", "must not be negative", nil)
	}
	if f := c.Host.TriggerFraction; f < 0 || f > 1 {
		add(-1, "host.trigger_fraction", fmt.Sprintf("%v is outside [0,1]", f), nil)
	}
	return errors.Join(errs...)
}
