package cli

import (
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/convtools/internal/pdf"
	"github.com/kpauljoseph/convtools/internal/scanner"
	"github.com/kpauljoseph/convtools/pkg/models"
)

func NewPDFToImageCommand() *cobra.Command {
	var (
		common Common
		dpi    float64
	)

	cmd := NewCommand("pdftoimg", "pdftoimg source [dest_dir]",
		"Render PDF pages to images. Source is a PDF file or a directory of PDFs.", &common)
	cmd.Args = cobra.RangeArgs(1, 2)

	cmd.Flags().Float64VarP(&dpi, "dpi", "d", 0, "Dots per inch of the rendered pages (default 200)")
	cmd.Flags().String("format", "", "Output format: png, jpeg, tiff, gif, bmp (default png)")
	cmd.Flags().BoolP("jpeg", "j", false, "Output format is jpeg.")
	cmd.Flags().BoolP("png", "p", false, "Output format is png.")
	cmd.Flags().BoolP("tiff", "t", false, "Output format is tiff.")
	cmd.Flags().BoolP("gif", "g", false, "Output format is gif.")
	cmd.Flags().BoolP("bmp", "b", false, "Output format is bmp.")
	cmd.MarkFlagsMutuallyExclusive("format", "jpeg", "png", "tiff", "gif", "bmp")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		env, err := common.Setup(cmd)
		if err != nil {
			return err
		}
		cfg, log := env.Config, env.Log

		if !cmd.Flags().Changed("dpi") {
			dpi = cfg.PDF.DPI
		}

		format := StringFlag(cmd, "format", cfg.PDF.Format)
		for _, name := range []string{"jpeg", "png", "tiff", "gif", "bmp"} {
			if on, _ := cmd.Flags().GetBool(name); on {
				format = name
			}
		}

		r, err := pdf.NewRasterizer(DestDir(args, 1, cfg.PDF.DestDir), dpi, format, log.Named("pdf"))
		if err != nil {
			return err
		}

		ctx, cancel := Context()
		defer cancel()

		files, err := scanner.New(log.Named("scanner")).FindFiles(ctx, args[0], ".pdf")
		if err != nil {
			return err
		}

		report := models.NewBatchReport("pdftoimg")
		if err := r.RasterizeAll(ctx, files, report); err != nil {
			return err
		}
		report.Finish()
		report.Print(log)
		return nil
	}

	return cmd
}
