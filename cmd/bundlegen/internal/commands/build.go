package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/divimode/bundlegen/internal/engine"
	"github.com/divimode/bundlegen/internal/logger"
	"github.com/rs/zerolog"
)

// BuildCmd runs every descriptor of a plan through esbuild.
type BuildCmd struct {
	PlanFlags `embed:""`
}

func (c *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)
	log.Info().Str("version", globals.Version).Msg("Starting build")

	return c.build(logger.WithContext(ctx, log), os.Stdout)
}

// build writes, per unit, the scripts a page has to load in order.
func (c *BuildCmd) build(ctx context.Context, w io.Writer) error {
	log := zerolog.Ctx(ctx)

	descriptors, env, err := c.descriptors()
	if err != nil {
		return err
	}

	log.Info().Str("env", string(env)).Int("units", len(descriptors)).Msg("Building plan")

	started := time.Now()
	results, err := engine.New().BuildAll(ctx, descriptors)
	if err != nil {
		return fmt.Errorf("build stopped after %d of %d units: %w", len(results), len(descriptors), err)
	}

	for _, res := range results {
		log.Debug().Str("unit", res.Name).Strs("scripts", res.Scripts).Msg("Unit scripts")
		if _, err := fmt.Fprintf(w, "%s: %s\n", res.Name, strings.Join(res.Scripts, " ")); err != nil {
			return err
		}
	}

	log.Info().Dur("duration", time.Since(started)).Int("units", len(results)).Msg("Build finished")
	return nil
}
