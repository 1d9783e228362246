package main

import (
	"github.com/alecthomas/kong"
	_ "github.com/joho/godotenv/autoload"

	"github.com/lox/cardring/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Play a game"`
	GenPack GenPackCmd       `cmd:"gen-pack" help:"Write a shuffled pack file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cardring"),
		kong.Description("Concurrent ring-exchange card game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
