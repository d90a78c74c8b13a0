package imageops

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/convtools/pkg/logger"
	"github.com/kpauljoseph/convtools/pkg/models"
	"github.com/kpauljoseph/convtools/pkg/utils"
)

const DefaultThreshold = 205

var cleared = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// MakeTransparent turns every pixel whose RGB mean reaches threshold fully
// transparent and makes the rest opaque.
func MakeTransparent(img image.Image, threshold int) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		// Compare the sum so a mean like 204.67 stays below 205.
		if int(c.R)+int(c.G)+int(c.B) >= threshold*3 {
			return cleared
		}
		c.A = 255
		return c
	})
}

type Transparenter struct {
	threshold int
	destDir   string
	logger    *logger.Logger
}

func NewTransparenter(destDir string, threshold int, logger *logger.Logger) (*Transparenter, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if err := utils.EnsureDir(destDir); err != nil {
		return nil, err
	}
	return &Transparenter{
		threshold: threshold,
		destDir:   destDir,
		logger:    logger,
	}, nil
}

// ConvertFile writes <destDir>/<name>.png with near-white pixels cleared.
func (t *Transparenter) ConvertFile(path string) models.FileResult {
	res := models.FileResult{Source: path}

	img, err := imaging.Open(path)
	if err != nil {
		res.Status = models.StatusFailed
		res.Err = fmt.Errorf("failed to open image: %w", err)
		return res
	}

	dst := utils.OutputPath(t.destDir, path, ".png")
	if err := imaging.Save(MakeTransparent(img, t.threshold), dst); err != nil {
		res.Status = models.StatusFailed
		res.Err = fmt.Errorf("failed to save image: %w", err)
		return res
	}

	t.logger.Info("Success Transparent: %s", dst)
	res.Status = models.StatusSucceeded
	res.Output = dst
	return res
}

func (t *Transparenter) ConvertAll(ctx context.Context, files []string, report *models.BatchReport) error {
	for _, f := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res := t.ConvertFile(f)
		if res.Err != nil {
			t.logger.Error("Error: %s: %v", f, res.Err)
		}
		report.Add(res)
	}
	return nil
}
