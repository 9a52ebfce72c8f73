package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/placemap/internal/cli"
	"github.com/idilsaglam/placemap/internal/config"
	"github.com/idilsaglam/placemap/internal/log"
	"github.com/idilsaglam/placemap/internal/ui"
)

func main() {
	cfg, err := config.LoadEnv(".env")
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}

	// Root flags (apply to every subcommand); defaults come from the environment.
	cfg.RegisterFlags(flag.CommandLine)
	forceColor := flag.Bool("color", false, "force colored output")
	flag.Parse()

	ui.SetColorForcing(*forceColor, false)
	ui.SetTheme(cfg.Theme)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	lg := log.New(cfg.LogLevel, cfg.LogDir)
	lg.Info("start", "args", args, "sources", cfg.Sources)

	code := cli.Run(args, cli.Options{Config: cfg, Log: lg})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
