package imageops

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/convtools/pkg/logger"
	"github.com/kpauljoseph/convtools/pkg/models"
	"github.com/kpauljoseph/convtools/pkg/sizespec"
	"github.com/kpauljoseph/convtools/pkg/utils"
)

var filters = map[string]imaging.ResampleFilter{
	"NEAREST":  imaging.NearestNeighbor,
	"BOX":      imaging.Box,
	"BILINEAR": imaging.Linear,
	"HAMMING":  imaging.Hamming,
	"BICUBIC":  imaging.CatmullRom,
	"LANCZOS":  imaging.Lanczos,
}

// FilterNames lists the accepted resampling filter names.
var FilterNames = []string{"NEAREST", "BOX", "BILINEAR", "HAMMING", "BICUBIC", "LANCZOS"}

// ParseFilter maps a filter name to its resampling filter. An empty name
// selects nearest neighbour.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	if name == "" {
		return imaging.NearestNeighbor, nil
	}
	f, ok := filters[strings.ToUpper(name)]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown filter %q (choose from %s)", name, strings.Join(FilterNames, ", "))
	}
	return f, nil
}

type ResizeOptions struct {
	Size      sizespec.Expression
	Filter    imaging.ResampleFilter
	Thumbnail bool
	DestDir   string
}

type Resizer struct {
	opts   ResizeOptions
	logger *logger.Logger
}

func NewResizer(opts ResizeOptions, logger *logger.Logger) (*Resizer, error) {
	if err := utils.EnsureDir(opts.DestDir); err != nil {
		return nil, err
	}
	return &Resizer{
		opts:   opts,
		logger: logger,
	}, nil
}

// Target works out the output size for an image of src dimensions. ok is
// false when the expression's guard leaves the image untouched.
func (r *Resizer) Target(src sizespec.Dimensions) (sizespec.Dimensions, bool, error) {
	if r.opts.Thumbnail {
		box, err := r.opts.Size.Box(src)
		return box, err == nil, err
	}
	return r.opts.Size.Resolve(src)
}

func (r *Resizer) resize(img image.Image) (image.Image, bool, error) {
	b := img.Bounds()
	src := sizespec.Dimensions{Width: b.Dx(), Height: b.Dy()}

	target, ok, err := r.Target(src)
	if err != nil || !ok {
		return nil, ok, err
	}

	if r.opts.Thumbnail {
		r.logger.Trace("Thumbnail %s into %s", src, target)
		// Fit never enlarges, matching a thumbnail that only shrinks.
		return imaging.Fit(img, target.Width, target.Height, r.opts.Filter), true, nil
	}

	r.logger.Trace("Resize %s to %s", src, target)
	return imaging.Resize(img, target.Width, target.Height, r.opts.Filter), true, nil
}

// ResizeFile resizes one image into the destination directory under its own
// name.
func (r *Resizer) ResizeFile(path string) models.FileResult {
	res := models.FileResult{Source: path}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		res.Status = models.StatusFailed
		res.Err = fmt.Errorf("failed to open image: %w", err)
		return res
	}

	out, ok, err := r.resize(img)
	if err != nil {
		res.Status = models.StatusFailed
		res.Err = fmt.Errorf("failed to resolve size %q: %w", r.opts.Size, err)
		return res
	}
	if !ok {
		res.Status = models.StatusSkipped
		r.logger.Debug("Non operation: %s", path)
		return res
	}

	dst := utils.OutputPath(r.opts.DestDir, path, "")
	if err := imaging.Save(out, dst); err != nil {
		res.Status = models.StatusFailed
		res.Err = fmt.Errorf("failed to save image: %w", err)
		return res
	}

	b := out.Bounds()
	kind := "Resize"
	if r.opts.Thumbnail {
		kind = "Thumbnail"
	}
	r.logger.Debug("Success <%s> <%dx%d>: %s", kind, b.Dx(), b.Dy(), dst)

	res.Status = models.StatusSucceeded
	res.Output = dst
	return res
}

// ResizeAll processes every file and keeps going past failures.
func (r *Resizer) ResizeAll(ctx context.Context, files []string, report *models.BatchReport) error {
	for _, f := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res := r.ResizeFile(f)
		if res.Err != nil {
			r.logger.Error("Error: %s: %v", f, res.Err)
		}
		report.Add(res)
	}
	return nil
}
