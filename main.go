package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/aitafsir/internal/cli"
	"github.com/mrlokans/aitafsir/internal/config"
	"github.com/mrlokans/aitafsir/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case "offline-sync":
		cmd := cli.NewOfflineSyncCommand()
		if err := cmd.ParseFlags(args); err != nil {
			exitWithError(err)
		}
		if err := cmd.Run(ctx); err != nil {
			exitWithError(err)
		}

	case "verse":
		cmd := cli.NewVerseCommand()
		if err := cmd.ParseFlags(args); err != nil {
			exitWithError(err)
		}
		if err := cmd.Run(ctx); err != nil {
			exitWithError(err)
		}

	case "version":
		fmt.Printf("aitafsir %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve          Start the localhost API server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  offline-sync   Download every missing chapter into the offline cache\n")
	fmt.Fprintf(os.Stderr, "  verse          Print a verse, or the verse of the day\n")
	fmt.Fprintf(os.Stderr, "  version        Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
