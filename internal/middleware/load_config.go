package middleware

import (
	"context"
	"fmt"

	"github.com/atelierhub/sheetmirror/internal/config"
	"github.com/atelierhub/sheetmirror/internal/utils"
	"github.com/spf13/cobra"
)

// LoadConfig reads the YAML config named by the root --config flag and
// injects it into the command context for the command to pick up.
func LoadConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil || path == "" {
		path = config.DefaultFile
	}

	if ok, err := utils.FileExists(path); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("no configuration found at %s (see %s.example in the repo)", path, config.DefaultFile)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, CtxKeyConfig, cfg))
	return next(cmd, args)
}
