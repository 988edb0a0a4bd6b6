package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/cli"
)

func main() {
	// Configuration and the logger are built from --config once flags are parsed.
	rootCmd := cli.NewRootCmd(nil, zerolog.Nop())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
