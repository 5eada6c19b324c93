package main

import (
	"os"

	cmd "github.com/atelierhub/sheetmirror/internal"
	"github.com/atelierhub/sheetmirror/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.LogError(err.Error())
		os.Exit(1)
	}
}
