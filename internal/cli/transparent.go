package cli

import (
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/convtools/internal/imageops"
	"github.com/kpauljoseph/convtools/internal/scanner"
	"github.com/kpauljoseph/convtools/pkg/models"
)

func NewTransparentCommand() *cobra.Command {
	var (
		common    Common
		threshold int
	)

	cmd := NewCommand("transparent", "transparent source [dest_dir]",
		"Make near-white pixels transparent and save the images as PNG.", &common)
	cmd.Args = cobra.RangeArgs(1, 2)
	cmd.Flags().IntVar(&threshold, "threshold", 0, "RGB mean at or above which a pixel becomes transparent (default 205)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		env, err := common.Setup(cmd)
		if err != nil {
			return err
		}
		cfg, log := env.Config, env.Log

		if !cmd.Flags().Changed("threshold") {
			threshold = cfg.Transparent.Threshold
		}

		t, err := imageops.NewTransparenter(DestDir(args, 1, cfg.Transparent.DestDir), threshold, log)
		if err != nil {
			return err
		}

		ctx, cancel := Context()
		defer cancel()

		files, err := scanner.New(log.Named("scanner")).FindFiles(ctx, args[0])
		if err != nil {
			return err
		}

		report := models.NewBatchReport("transparent")
		if err := t.ConvertAll(ctx, files, report); err != nil {
			return err
		}
		report.Finish()
		report.Print(log)
		return nil
	}

	return cmd
}
