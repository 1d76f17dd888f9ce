package main

import (
	"fmt"
	"os"

	"github.com/pageza/recipes/backend/internal/cli"
)

func main() {
	if err := cli.NewSeedCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
