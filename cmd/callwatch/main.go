package main

import (
	"fmt"
	"os"

	"github.com/callwatch/callwatch/internal/cli"
	"github.com/callwatch/callwatch/internal/config"
)

func main() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd(&cli.Dependencies{Config: cfg})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
