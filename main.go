package main

import (
	"os"

	"github.com/fieldrover/routeman/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
