package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kpauljoseph/convtools/internal/imageops"
	"github.com/kpauljoseph/convtools/pkg/logger"
	"github.com/kpauljoseph/convtools/pkg/models"
	"github.com/kpauljoseph/convtools/pkg/utils"
)

// ImageExts are the inputs pdfcpu can import as pages.
var ImageExts = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}

type Assembler struct {
	tempDir string
	conf    *model.Configuration
	logger  *logger.Logger
}

func NewAssembler(tempDir string, logger *logger.Logger) (*Assembler, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &Assembler{
		tempDir: tempDir,
		conf:    model.NewDefaultConfiguration(),
		logger:  logger,
	}, nil
}

// prepare returns the paths to import, swapping PNGs that carry alpha for
// opaque copies in the temp directory. The originals are never modified.
func (a *Assembler) prepare(images []string) ([]string, error) {
	prepared := make([]string, 0, len(images))
	for i, img := range images {
		if strings.ToLower(filepath.Ext(img)) != ".png" {
			prepared = append(prepared, img)
			continue
		}
		dst := filepath.Join(a.tempDir, fmt.Sprintf("%04d_%s", i, filepath.Base(img)))
		stripped, err := imageops.StripAlphaFile(img, dst)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", img, err)
		}
		if !stripped {
			prepared = append(prepared, img)
			continue
		}
		a.logger.Trace("Stripped alpha: %s -> %s", img, dst)
		prepared = append(prepared, dst)
	}
	return prepared, nil
}

// Assemble writes images, one per page and in the given order, to outFile.
// An existing outFile is replaced rather than appended to.
func (a *Assembler) Assemble(ctx context.Context, images []string, outFile string) error {
	if len(images) == 0 {
		return fmt.Errorf("no images to convert")
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("stopped before %s: %w", outFile, ctx.Err())
	default:
	}

	prepared, err := a.prepare(images)
	if err != nil {
		return err
	}

	if err := os.Remove(outFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", outFile, err)
	}

	if err := api.ImportImagesFile(prepared, outFile, pdfcpu.DefaultImportConfig(), a.conf); err != nil {
		return fmt.Errorf("failed to import images into %s: %w", outFile, err)
	}
	a.logger.Debug("Wrote %d pages to %s", len(prepared), outFile)
	return nil
}

// AssembleEach writes one PDF per image into destDir.
func (a *Assembler) AssembleEach(ctx context.Context, images []string, destDir string, report *models.BatchReport) error {
	if err := utils.EnsureDir(destDir); err != nil {
		return err
	}
	for _, img := range images {
		out := utils.OutputPath(destDir, img, ".pdf")
		res := models.FileResult{Source: img, Output: out, Status: models.StatusSucceeded}

		if err := a.Assemble(ctx, []string{img}, out); err != nil {
			if interrupted(err) {
				return err
			}
			a.logger.Error("Error: %s: %v", img, err)
			res.Status = models.StatusFailed
			res.Err = err
		}
		report.Add(res)
	}
	return nil
}

func PageCount(pdfPath string) (int, error) {
	return api.PageCountFile(pdfPath)
}

func (a *Assembler) Cleanup() error {
	return os.RemoveAll(a.tempDir)
}
