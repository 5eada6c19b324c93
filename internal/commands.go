package internal

import (
	"github.com/atelierhub/sheetmirror/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewGetCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewSyncCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewMirrorCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewStatusCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewWatchCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewAttendCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
