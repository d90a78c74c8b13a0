package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/convtools/internal/workbook"
	"github.com/kpauljoseph/convtools/pkg/models"
)

func NewSplitSheetCommand() *cobra.Command {
	var common Common

	cmd := NewCommand("splitsheet", "splitsheet excel_file [dest_dir]",
		"Split a workbook into one file per sheet. Supported formats are: .xlsx,.xlsm,.xltx,.xltm.", &common)
	cmd.Args = cobra.RangeArgs(1, 2)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		env, err := common.Setup(cmd)
		if err != nil {
			return err
		}
		cfg, log := env.Config, env.Log

		info, err := os.Stat(args[0])
		if err != nil || info.IsDir() {
			return fmt.Errorf("excel file does not exist: %s", args[0])
		}

		splitter, err := workbook.NewSplitter(DestDir(args, 1, cfg.Workbook.DestDir), log)
		if err != nil {
			return err
		}

		report := models.NewBatchReport("splitsheet")
		if err := splitter.Split(args[0], report); err != nil {
			return err
		}
		report.Finish()
		if report.Failed > 0 {
			return fmt.Errorf("%d of %d sheets failed", report.Failed, report.Processed)
		}
		log.Info("COMPLETE!")
		return nil
	}

	return cmd
}
