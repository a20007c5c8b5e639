package main

import (
	"fmt"
	"os"

	"taskman/internal/cli"
	"taskman/internal/config"
	"taskman/internal/errors"
)

func main() {
	v := config.NewViper()

	root := cli.NewRootCommand(v, os.Stdin, os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.GetUserMessage(err))
		os.Exit(1)
	}
}
