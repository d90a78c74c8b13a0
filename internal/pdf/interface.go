package pdf

import (
	"context"

	"github.com/kpauljoseph/convtools/pkg/models"
)

type PageRasterizer interface {
	RasterizeFile(ctx context.Context, pdfPath string) models.FileResult
	PageCount(pdfPath string) (int, error)
}

type ImageAssembler interface {
	Assemble(ctx context.Context, images []string, outFile string) error
	Cleanup() error
}

var (
	_ PageRasterizer = (*Rasterizer)(nil)
	_ ImageAssembler = (*Assembler)(nil)
)
