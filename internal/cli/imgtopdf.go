package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/convtools/internal/pdf"
	"github.com/kpauljoseph/convtools/internal/scanner"
	"github.com/kpauljoseph/convtools/pkg/models"
	"github.com/kpauljoseph/convtools/pkg/utils"
)

func NewImageToPDFCommand() *cobra.Command {
	var (
		common Common
		split  bool
	)

	cmd := NewCommand("imgtopdf", "imgtopdf source [destination]",
		"Convert images to PDF. Source is an image or a directory of images; destination is a PDF file or, with --split, a directory.", &common)
	cmd.Args = cobra.RangeArgs(1, 2)
	cmd.Flags().BoolVarP(&split, "split", "s", false, "Write a separate PDF per image.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		env, err := common.Setup(cmd)
		if err != nil {
			return err
		}
		cfg, log := env.Config, env.Log

		ctx, cancel := Context()
		defer cancel()

		images, err := scanner.New(log.Named("scanner")).FindFiles(ctx, args[0], pdf.ImageExts...)
		if err != nil {
			return err
		}
		if len(images) == 0 {
			return fmt.Errorf("no images found in %s", args[0])
		}

		assembler, err := pdf.NewAssembler(filepath.Join(os.TempDir(), fmt.Sprintf("convtools-imgtopdf-%d", os.Getpid())), log.Named("pdf"))
		if err != nil {
			return err
		}
		defer assembler.Cleanup()

		report := models.NewBatchReport("imgtopdf")
		if split {
			if err := assembler.AssembleEach(ctx, images, DestDir(args, 1, cfg.PDF.DestDir), report); err != nil {
				return err
			}
		} else {
			out := DestDir(args, 1, "")
			if out == "" || !strings.EqualFold(filepath.Ext(out), ".pdf") {
				src, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				out = utils.OutputPath(DestDir(args, 1, cfg.PDF.DestDir), src, ".pdf")
			}
			if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
				return err
			}
			if err := assembler.Assemble(ctx, images, out); err != nil {
				return err
			}
			report.Add(models.FileResult{Source: args[0], Output: out, Status: models.StatusSucceeded})
			log.Info("%s > %s", args[0], out)
		}
		report.Finish()
		report.Print(log)
		return nil
	}

	return cmd
}
