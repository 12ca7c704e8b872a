package main

import (
	"os"

	"github.com/spigell/resume-tailor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
