package main

import (
	"os"

	"github.com/VitaminP8/blogicum/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
