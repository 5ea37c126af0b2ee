package main

import (
	"fmt"
	"os"

	"github.com/mikey/mail-priority-sorter/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.DefaultConfig()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
