package imageops_test

import (
	"context"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/convtools/internal/imageops"
	"github.com/kpauljoseph/convtools/pkg/models"
)

var _ = Describe("Transparency", func() {
	DescribeTable("MakeTransparent",
		func(in color.NRGBA, expected color.NRGBA) {
			img := createTestImage(2, 2, in)
			out := imageops.MakeTransparent(img, imageops.DefaultThreshold)
			Expect(out.NRGBAAt(1, 1)).To(Equal(expected))
		},
		Entry("white is cleared",
			color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			color.NRGBA{R: 255, G: 255, B: 255, A: 0},
		),
		Entry("mean exactly at threshold is cleared",
			color.NRGBA{R: 205, G: 205, B: 205, A: 255},
			color.NRGBA{R: 255, G: 255, B: 255, A: 0},
		),
		Entry("mean just below threshold is kept",
			color.NRGBA{R: 205, G: 205, B: 204, A: 255},
			color.NRGBA{R: 205, G: 205, B: 204, A: 255},
		),
		Entry("dark pixels become opaque",
			color.NRGBA{R: 10, G: 20, B: 30, A: 128},
			color.NRGBA{R: 10, G: 20, B: 30, A: 255},
		),
	)

	Context("when converting files", func() {
		var (
			sourceDir string
			outputDir string
		)

		BeforeEach(func() {
			var err error
			sourceDir, err = os.MkdirTemp("", "transparent-test-source-*")
			Expect(err).NotTo(HaveOccurred())
			outputDir = filepath.Join(sourceDir, "out")
		})

		AfterEach(func() {
			os.RemoveAll(sourceDir)
		})

		It("should write PNGs and continue past failures", func() {
			src := filepath.Join(sourceDir, "scan.jpg")
			Expect(imaging.Save(createTestImage(4, 4, color.White), src)).To(Succeed())
			broken := filepath.Join(sourceDir, "broken.png")
			Expect(os.WriteFile(broken, []byte("junk"), 0644)).To(Succeed())

			t, err := imageops.NewTransparenter(outputDir, 0, imageopsTestLogger())
			Expect(err).NotTo(HaveOccurred())

			report := models.NewBatchReport("transparent")
			Expect(t.ConvertAll(context.Background(), []string{src, broken}, report)).To(Succeed())
			Expect(report.Succeeded).To(Equal(1))
			Expect(report.Failed).To(Equal(1))

			out := filepath.Join(outputDir, "scan.png")
			Expect(out).To(BeAnExistingFile())

			img, err := imaging.Open(out)
			Expect(err).NotTo(HaveOccurred())
			_, _, _, a := img.At(0, 0).RGBA()
			Expect(a).To(BeZero())
		})
	})
})

var _ = Describe("Alpha handling", func() {
	It("drops alpha without blending", func() {
		img := createTestImage(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
		Expect(imageops.HasAlpha(img)).To(BeTrue())

		out := imageops.Opaque(img)
		Expect(out.NRGBAAt(0, 0)).To(Equal(color.NRGBA{R: 200, G: 100, B: 50, A: 255}))
		Expect(imageops.HasAlpha(out)).To(BeFalse())
	})

	It("writes an opaque copy only when the source has alpha", func() {
		dir, err := os.MkdirTemp("", "imageops-alpha-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		translucent := filepath.Join(dir, "translucent.png")
		Expect(imaging.Save(createTestImage(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 90}), translucent)).To(Succeed())
		solid := filepath.Join(dir, "solid.png")
		writeTestImage(solid, 2, 2)

		stripped, err := imageops.StripAlphaFile(translucent, filepath.Join(dir, "translucent_out.png"))
		Expect(err).NotTo(HaveOccurred())
		Expect(stripped).To(BeTrue())
		img, err := imaging.Open(filepath.Join(dir, "translucent_out.png"))
		Expect(err).NotTo(HaveOccurred())
		Expect(imageops.HasAlpha(img)).To(BeFalse())

		stripped, err = imageops.StripAlphaFile(solid, filepath.Join(dir, "solid_out.png"))
		Expect(err).NotTo(HaveOccurred())
		Expect(stripped).To(BeFalse())
		Expect(filepath.Join(dir, "solid_out.png")).NotTo(BeAnExistingFile())
	})

	DescribeTable("EncodingFormat",
		func(name string, format imaging.Format, ext string) {
			f, e, err := imageops.EncodingFormat(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(format))
			Expect(e).To(Equal(ext))
		},
		Entry(nil, "png", imaging.PNG, ".png"),
		Entry(nil, "JPEG", imaging.JPEG, ".jpg"),
		Entry(nil, "tiff", imaging.TIFF, ".tif"),
		Entry(nil, "gif", imaging.GIF, ".gif"),
		Entry(nil, "bmp", imaging.BMP, ".bmp"),
	)

	It("rejects webp output", func() {
		_, _, err := imageops.EncodingFormat("webp")
		Expect(err).To(HaveOccurred())
	})
})
