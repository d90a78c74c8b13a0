package pdf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"

	"github.com/kpauljoseph/convtools/internal/imageops"
	"github.com/kpauljoseph/convtools/pkg/logger"
	"github.com/kpauljoseph/convtools/pkg/models"
	"github.com/kpauljoseph/convtools/pkg/utils"
)

const DefaultDPI = 200

type Rasterizer struct {
	outputDir string
	dpi       float64
	ext       string
	logger    *logger.Logger
}

func NewRasterizer(outputDir string, dpi float64, format string, logger *logger.Logger) (*Rasterizer, error) {
	_, ext, err := imageops.EncodingFormat(format)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if err := utils.EnsureDir(outputDir); err != nil {
		return nil, err
	}
	return &Rasterizer{
		outputDir: outputDir,
		dpi:       dpi,
		ext:       ext,
		logger:    logger,
	}, nil
}

func (r *Rasterizer) PageCount(pdfPath string) (int, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// PageFileName numbers pages from 1, zero-padded to the width of the page
// count so that a plain directory listing keeps page order.
func PageFileName(base string, page, total int, ext string) string {
	width := len(strconv.Itoa(total))
	return fmt.Sprintf("%s_%0*d%s", base, width, page, ext)
}

// RasterizeFile renders every page of pdfPath into the output directory.
func (r *Rasterizer) RasterizeFile(ctx context.Context, pdfPath string) models.FileResult {
	res := models.FileResult{Source: pdfPath}
	r.logger.Debug("Processing PDF: %s", pdfPath)

	doc, err := fitz.New(pdfPath)
	if err != nil {
		res.Status = models.StatusFailed
		res.Err = fmt.Errorf("failed to open PDF: %w", err)
		return res
	}
	defer doc.Close()

	base := utils.BaseName(pdfPath)
	total := doc.NumPage()

	//Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < total; pageNum++ {
		select {
		case <-ctx.Done():
			res.Status = models.StatusFailed
			res.Err = fmt.Errorf("stopped before page %d: %w", pageNum+1, ctx.Err())
			return res
		default:
		}

		img, err := doc.ImageDPI(pageNum, r.dpi)
		if err != nil {
			res.Status = models.StatusFailed
			res.Err = fmt.Errorf("failed to render page %d: %w", pageNum+1, err)
			return res
		}

		path := filepath.Join(r.outputDir, PageFileName(base, pageNum+1, total, r.ext))
		if err := imaging.Save(img, path); err != nil {
			res.Status = models.StatusFailed
			res.Err = fmt.Errorf("failed to save page %d: %w", pageNum+1, err)
			return res
		}
		r.logger.Trace("Page %d -> %s (%dx%d)", pageNum+1, path, img.Bounds().Dx(), img.Bounds().Dy())
	}

	r.logger.Debug("Rendered %d pages of %s at %.0f dpi", total, pdfPath, r.dpi)
	res.Status = models.StatusSucceeded
	res.Output = r.outputDir
	return res
}

// interrupted reports whether err comes from the batch context rather than
// from the file being processed.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (r *Rasterizer) RasterizeAll(ctx context.Context, files []string, report *models.BatchReport) error {
	for _, f := range files {
		res := r.RasterizeFile(ctx, f)
		if interrupted(res.Err) {
			return res.Err
		}
		if res.Err != nil {
			r.logger.Error("Error processing %s: %v", f, res.Err)
		}
		report.Add(res)
	}
	return nil
}
