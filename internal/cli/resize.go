package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/convtools/internal/imageops"
	"github.com/kpauljoseph/convtools/internal/scanner"
	"github.com/kpauljoseph/convtools/pkg/models"
	"github.com/kpauljoseph/convtools/pkg/sizespec"
)

func NewResizeCommand() *cobra.Command {
	var (
		common    Common
		size      string
		thumbnail bool
	)

	cmd := NewCommand("resize", "resize source [dest_dir]",
		"Resize images. Source is a file or directory (wildcards cannot be used).", &common)
	cmd.Args = cobra.RangeArgs(1, 2)

	cmd.Flags().StringVarP(&size, "size", "s", "", "Size parameter. ex.) 800, 600x400, 350x240!, 450x, x400, 50%x50%>, 500x300^")
	cmd.Flags().StringP("filter", "f", "", "Resampling filter: "+strings.Join(imageops.FilterNames, ", "))
	cmd.Flags().BoolVarP(&thumbnail, "thumbnail", "t", false, "Thumbnail mode. Fit inside the size without enlarging.")
	_ = cmd.MarkFlagRequired("size")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		env, err := common.Setup(cmd)
		if err != nil {
			return err
		}
		cfg, log := env.Config, env.Log

		// A bad size applies to every file, so it ends the run here.
		expr, err := sizespec.Parse(size)
		if err != nil {
			return fmt.Errorf("invalid size option: %w", err)
		}

		filter, err := imageops.ParseFilter(StringFlag(cmd, "filter", cfg.Resize.Filter))
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("thumbnail") {
			thumbnail = cfg.Resize.Thumbnail
		}

		resizer, err := imageops.NewResizer(imageops.ResizeOptions{
			Size:      expr,
			Filter:    filter,
			Thumbnail: thumbnail,
			DestDir:   DestDir(args, 1, cfg.Resize.DestDir),
		}, log)
		if err != nil {
			return err
		}

		ctx, cancel := Context()
		defer cancel()

		files, err := scanner.New(log.Named("scanner")).FindFiles(ctx, args[0])
		if err != nil {
			return err
		}
		log.Debug("Found %d files to resize with %q (%s)", len(files), expr, expr.Policy)

		report := models.NewBatchReport("resize")
		if err := resizer.ResizeAll(ctx, files, report); err != nil {
			return err
		}
		report.Finish()
		if cfg.Verbose {
			report.Print(log)
		}
		return nil
	}

	return cmd
}
