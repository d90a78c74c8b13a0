package cli_test

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/convtools/internal/cli"
	"github.com/kpauljoseph/convtools/internal/pdf"
	"github.com/kpauljoseph/convtools/pkg/sizespec"
)

func run(cmd *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeImage(path string, w, h int) {
	Expect(imaging.Save(imaging.New(w, h, color.NRGBA{R: 30, G: 60, B: 90, A: 255}), path)).To(Succeed())
}

func bounds(path string) (int, int) {
	img, err := imaging.Open(path)
	Expect(err).NotTo(HaveOccurred())
	return img.Bounds().Dx(), img.Bounds().Dy()
}

var _ = Describe("Commands", func() {
	var (
		sourceDir string
		outputDir string
	)

	BeforeEach(func() {
		var err error
		sourceDir, err = os.MkdirTemp("", "cli-test-source-*")
		Expect(err).NotTo(HaveOccurred())
		outputDir, err = os.MkdirTemp("", "cli-test-output-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(sourceDir)
		os.RemoveAll(outputDir)
	})

	Context("resize", func() {
		BeforeEach(func() {
			writeImage(filepath.Join(sourceDir, "a.png"), 192, 108)
			writeImage(filepath.Join(sourceDir, "b.jpg"), 108, 192)
		})

		It("should resize every file of a directory", func() {
			out, err := run(cli.NewResizeCommand(), sourceDir, outputDir, "-s", "10%x10%", "-f", "lanczos", "-v")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Success <Resize> <19x11>"))
			Expect(out).To(ContainSubstring("resize.scanner: Found 2 files"))

			w, h := bounds(filepath.Join(outputDir, "a.png"))
			Expect([]int{w, h}).To(Equal([]int{19, 11}))
			w, h = bounds(filepath.Join(outputDir, "b.jpg"))
			Expect([]int{w, h}).To(Equal([]int{11, 19}))
		})

		It("should log skipped files when verbose", func() {
			out, err := run(cli.NewResizeCommand(), filepath.Join(sourceDir, "a.png"), outputDir, "--size", "50x50<", "--verbose")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Non operation"))
			Expect(filepath.Join(outputDir, "a.png")).NotTo(BeAnExistingFile())
		})

		It("should abort the whole run on a malformed size", func() {
			_, err := run(cli.NewResizeCommand(), sourceDir, outputDir, "-s", "abc")
			Expect(err).To(MatchError(sizespec.ErrMalformedExpression))
			Expect(filepath.Join(outputDir, "a.png")).NotTo(BeAnExistingFile())
		})

		It("should fail each file whose size cannot be encoded", func() {
			out, err := run(cli.NewResizeCommand(), sourceDir, outputDir, "-s", "99999999999x10!", "-v")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring(sizespec.ErrTargetTooLarge.Error()))
			Expect(out).To(ContainSubstring("- Failed: 2"))
			Expect(filepath.Join(outputDir, "a.png")).NotTo(BeAnExistingFile())
		})

		It("should log a failed run and exit non-zero", func() {
			cmd := cli.NewResizeCommand()
			errOut := &bytes.Buffer{}
			cmd.SetOut(errOut)
			cmd.SetErr(errOut)
			cmd.SetArgs([]string{sourceDir, outputDir, "-s", "abc"})

			code := -1
			cli.ExecuteWithExit(cmd, func(c int) { code = c })
			Expect(code).To(Equal(1))
			Expect(errOut.String()).To(ContainSubstring("resize: FATAL:"))
			Expect(errOut.String()).To(ContainSubstring(sizespec.ErrMalformedExpression.Error()))
		})

		It("should require a size", func() {
			_, err := run(cli.NewResizeCommand(), sourceDir)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a missing source", func() {
			_, err := run(cli.NewResizeCommand(), filepath.Join(sourceDir, "missing"), "-s", "10x10")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("does not exist"))
		})

		It("should reject a destination that is a file", func() {
			dest := filepath.Join(outputDir, "taken")
			Expect(os.WriteFile(dest, []byte("x"), 0644)).To(Succeed())
			_, err := run(cli.NewResizeCommand(), sourceDir, dest, "-s", "10x10")
			Expect(err).To(HaveOccurred())
		})

		It("should read defaults from a config file", func() {
			cfgPath := filepath.Join(sourceDir, "convtools.yaml")
			Expect(os.WriteFile(cfgPath, []byte("resize:\n  thumbnail: true\n  dest_dir: "+outputDir+"\n"), 0644)).To(Succeed())

			_, err := run(cli.NewResizeCommand(), filepath.Join(sourceDir, "a.png"), "-s", "1000x1000", "--config", cfgPath)
			Expect(err).NotTo(HaveOccurred())

			w, h := bounds(filepath.Join(outputDir, "a.png"))
			Expect([]int{w, h}).To(Equal([]int{192, 108}))
		})
	})

	Context("transparent", func() {
		It("should write PNGs into the destination", func() {
			writeImage(filepath.Join(sourceDir, "scan.jpg"), 4, 4)

			_, err := run(cli.NewTransparentCommand(), sourceDir, outputDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(outputDir, "scan.png")).To(BeAnExistingFile())
		})
	})

	Context("splitsheet", func() {
		It("should split a workbook", func() {
			book := filepath.Join(sourceDir, "book.xlsx")
			f := excelize.NewFile()
			_, err := f.NewSheet("Second")
			Expect(err).NotTo(HaveOccurred())
			Expect(f.SaveAs(book)).To(Succeed())
			Expect(f.Close()).To(Succeed())

			out, err := run(cli.NewSplitSheetCommand(), book, outputDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("COMPLETE!"))
			Expect(filepath.Join(outputDir, "Sheet1.xlsx")).To(BeAnExistingFile())
			Expect(filepath.Join(outputDir, "Second.xlsx")).To(BeAnExistingFile())
		})

		It("should fail for a missing workbook", func() {
			_, err := run(cli.NewSplitSheetCommand(), filepath.Join(sourceDir, "none.xlsx"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("imgtopdf and pdftoimg", func() {
		It("should round-trip images through a PDF", func() {
			writeImage(filepath.Join(sourceDir, "p1.png"), 40, 60)
			writeImage(filepath.Join(sourceDir, "p2.png"), 40, 60)
			out := filepath.Join(outputDir, "book.pdf")

			_, err := run(cli.NewImageToPDFCommand(), sourceDir, out)
			Expect(err).NotTo(HaveOccurred())

			count, err := pdf.PageCount(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))

			pages := filepath.Join(outputDir, "pages")
			_, err = run(cli.NewPDFToImageCommand(), out, pages, "-d", "72", "-j")
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(pages, "book_1.jpg")).To(BeAnExistingFile())
			Expect(filepath.Join(pages, "book_2.jpg")).To(BeAnExistingFile())
		})

		It("should write one PDF per image with --split", func() {
			writeImage(filepath.Join(sourceDir, "p1.jpg"), 40, 60)
			writeImage(filepath.Join(sourceDir, "p2.jpg"), 40, 60)

			_, err := run(cli.NewImageToPDFCommand(), sourceDir, outputDir, "--split")
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(outputDir, "p1.pdf")).To(BeAnExistingFile())
			Expect(filepath.Join(outputDir, "p2.pdf")).To(BeAnExistingFile())
		})

		It("should reject conflicting output formats", func() {
			_, err := run(cli.NewPDFToImageCommand(), sourceDir, "-j", "-p")
			Expect(err).To(HaveOccurred())
		})
	})
})
