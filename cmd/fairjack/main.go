package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/lox/fairjack/cmd/fairjack/shared"
	"github.com/lox/fairjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"fairjack.hcl" help:"Path to the HCL config file (optional)"`
	LogLevel string `default:"info" enum:"trace,debug,info,warn,error" help:"Log level"`
	JSON     bool   `help:"Log JSON lines instead of console output"`

	Stdout io.Writer `kong:"-"`
}

func (g *Globals) out() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Globals) logger() (zerolog.Logger, error) {
	return shared.SetupLogger(g.LogLevel, g.JSON)
}

func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play at an interactive table"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate rounds with an automated strategy"`
	Serve    ServeCmd         `cmd:"" help:"Run the websocket server"`
	Verify   VerifyCmd        `cmd:"" help:"Verify a shoe from its revealed seeds"`
	Shoe     ShoeCmd          `cmd:"" help:"Print the shoe order a seed pair produces"`
	Games    GamesCmd         `cmd:"" help:"List the games in the configured store"`
	Bot      BotCmd           `cmd:"" help:"Play against a running server with a strategy"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("fairjack"),
		kong.Description("Provably fair blackjack"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
