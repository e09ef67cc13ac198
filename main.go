package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/gymflow/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "-h", "--help", "help":
		printUsage()
		return

	case "version":
		fmt.Printf("gymflow %s (%s)\n", Version, Commit)
		return
	}

	cmd, ok := cli.Lookup(command)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> <action> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, name := range cli.Names() {
		fmt.Fprintf(os.Stderr, "  %-12s %s\n", name, cli.Summary(name))
	}
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", "version", "Print the version")
	fmt.Fprintf(os.Stderr, "\nConfiguration is read from the environment and an optional .env file\n")
	fmt.Fprintf(os.Stderr, "(DATABASE_PATH, LOG_LEVEL, AUDIT_ENABLED, ...).\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> <action> -h' for help on a specific action.\n", os.Args[0])
}
