package utils

import (
	"io"

	"github.com/atelierhub/sheetmirror/internal/logger"
)

func Try(f func() error) {
	if err := f(); err != nil {
		logger.LogError("deferred cleanup failed: %v", err)
	}
}

func Close(c io.Closer) {
	if err := c.Close(); err != nil {
		logger.LogError("close failed: %v", err)
	}
}
