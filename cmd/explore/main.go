package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"explore-engine/internal/commands"
)

func main() {
	reg := commands.NewRegistry("run")

	runFlags, runOpts := newFlagSet("run")
	reg.Register("run", "open the explorer window (default)", runFlags, func([]string) error {
		return run(context.Background(), *runOpts)
	})

	progressFlags, progressOpts := newFlagSet("progress")
	reg.Register("progress", "print discovered collectibles", progressFlags, func([]string) error {
		return progress(context.Background(), *progressOpts, os.Stdout)
	})

	resetFlags, resetOpts := newFlagSet("reset")
	reg.Register("reset", "forget every discovery", resetFlags, func([]string) error {
		return reset(context.Background(), *resetOpts, os.Stdout)
	})

	configFlags, configOpts := newFlagSet("config")
	configOut := configFlags.String("out", "", "file to write the effective config to")
	reg.Register("config", "write the effective config (file, .env, environment) as YAML", configFlags, func([]string) error {
		return writeConfig(*configOpts, *configOut, os.Stdout)
	})

	if err := reg.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "explore:", err)
		fmt.Fprintln(os.Stderr, "commands:")
		reg.Usage(os.Stderr)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	dotenvPath string
}

func newFlagSet(name string) (*flag.FlagSet, *options) {
	opts := &options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "config/explore.yaml", "path to the YAML config file")
	fs.StringVar(&opts.dotenvPath, "env", ".env", "path to a dotenv file applied before the process environment")
	return fs, opts
}
