package main

import (
	"os"

	"github.com/firefly-engineering/firefly-outpost/cmd"
	"github.com/firefly-engineering/firefly-outpost/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
