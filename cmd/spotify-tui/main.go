package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/handiism/spotify-dl/internal/config"
	"github.com/handiism/spotify-dl/internal/download"
	"github.com/handiism/spotify-dl/internal/logging"
	"github.com/handiism/spotify-dl/internal/tui"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "Path to config file")
	envFlag := flag.String("env", ".env", "Path to .env file with credentials")
	logFlag := flag.String("log", "", "Write logs to this file")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logging.Init(settings.LogLevel, logOut)

	creds, err := config.LoadCredentials(*envFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading credentials: %v\n", err)
		os.Exit(1)
	}
	if err := creds.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	settings.ApplyCredentials(creds)

	newDeps := func(ctx context.Context, s *config.Settings) (download.Deps, error) {
		return download.NewDeps(ctx, s, creds)
	}

	if err := tui.Run(settings, newDeps); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
