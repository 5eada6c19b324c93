package internal

import (
	"github.com/atelierhub/sheetmirror/internal/datasets"
	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/spf13/cobra"
)

func NewMirrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Download student images that are not mirrored yet",
		Long: `Diff the referenced images against the local asset directory and
download the missing ones. Presence is the only check: an image already
on disk is never re-downloaded.

Examples:
  sheetmirror mirror`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comps, err := buildComponents(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			students, err := datasets.Students(ctx, comps.manager, false)
			if err != nil {
				return err
			}

			res, err := comps.pipeline.Mirror(ctx, datasets.DesiredAssets(students))
			if err != nil {
				return err
			}

			if res.Failed > 0 {
				logger.Warn("%d transfers failed; they will be retried next cycle", res.Failed)
			}
			logger.Success("mirror: %d downloaded, %d already present", res.Downloaded, res.Skipped)
			return nil
		},
	}
}
