package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kpauljoseph/convtools/pkg/logger"
	"github.com/kpauljoseph/convtools/pkg/models"
	"github.com/kpauljoseph/convtools/pkg/utils"
)

var SupportedExts = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

type Splitter struct {
	outputDir string
	logger    *logger.Logger
}

func NewSplitter(outputDir string, logger *logger.Logger) (*Splitter, error) {
	if err := utils.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	return &Splitter{
		outputDir: outputDir,
		logger:    logger,
	}, nil
}

func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExts {
		if ext == e {
			return true
		}
	}
	return false
}

func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// Split writes one <sheet>.xlsx per sheet of the workbook, each keeping only
// that sheet. The workbook is reopened per sheet so every output starts from
// the untouched original.
func (s *Splitter) Split(path string, report *models.BatchReport) error {
	if !IsSupported(path) {
		return fmt.Errorf("unsupported workbook %s (supported formats are: %s)", path, strings.Join(SupportedExts, ","))
	}

	sheets, err := SheetNames(path)
	if err != nil {
		return err
	}
	s.logger.Info("EXCEL FILE: %s", path)

	for _, sheet := range sheets {
		out := filepath.Join(s.outputDir, sheet+".xlsx")
		res := models.FileResult{Source: path, Output: out, Status: models.StatusSucceeded}

		if err := s.extract(path, sheet, sheets, out); err != nil {
			s.logger.Error("Error: sheet %q: %v", sheet, err)
			res.Status = models.StatusFailed
			res.Err = err
		} else {
			s.logger.Info("%s", out)
		}
		report.Add(res)
	}
	return nil
}

func (s *Splitter) extract(path, keep string, sheets []string, out string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(keep)
	if err != nil {
		return fmt.Errorf("failed to find sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	for _, name := range sheets {
		if name == keep {
			continue
		}
		if err := f.DeleteSheet(name); err != nil {
			return fmt.Errorf("failed to remove sheet %q: %w", name, err)
		}
		s.logger.Trace("Removed sheet %q from copy for %q", name, keep)
	}

	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("failed to save %s: %w", out, err)
	}
	return nil
}
