package main

import (
	"os"

	"github.com/ygrebnov/gousset/cmd/gousset/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
