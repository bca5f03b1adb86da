package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/divimode/bundlegen/internal/logger"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DescribeCmd prints the descriptors a plan expands to.
type DescribeCmd struct {
	PlanFlags `embed:""`
	Format    string `help:"output format" default:"json" enum:"json,yaml"`
}

func (c *DescribeCmd) Run(ctx context.Context, globals *Globals) error {
	ctx = logger.WithContext(ctx, logger.Setup(globals.Debug))
	return c.describe(ctx, os.Stdout)
}

func (c *DescribeCmd) describe(ctx context.Context, w io.Writer) error {
	descriptors, env, err := c.descriptors()
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("env", string(env)).Int("units", len(descriptors)).Msg("Describing plan")

	switch c.Format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(descriptors); err != nil {
			return fmt.Errorf("failed to encode descriptors: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(descriptors); err != nil {
			return fmt.Errorf("failed to encode descriptors: %w", err)
		}
		return nil
	}
}
