package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/divimode/bundlegen/cmd/bundlegen/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug    bool `help:"Enable debug mode."`
		Version  kong.VersionFlag
		Describe commands.DescribeCmd `cmd:"" help:"Print the build descriptors of a plan"`
		Build    commands.BuildCmd    `cmd:"" help:"Bundle every entry of a plan with esbuild"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("bundlegen"),
		kong.Description("Generate and run bundler descriptors for local and shared script entries."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
