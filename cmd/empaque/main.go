package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"empaque/internal/config"
	"empaque/internal/pipeline"
	"empaque/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "empaque",
		Short:         "Consolidate packing list workbooks against a dispatch catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConsolidateCmd(), newInspectCmd(), newHistoryCmd())
	return root
}

func newConsolidateCmd() *cobra.Command {
	var catalogPath, outPath, inputDir string

	cmd := &cobra.Command{
		Use:   "consolidate [files...]",
		Short: "Process packing lists and write the consolidated bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			documents, err := collectDocuments(args, inputDir)
			if err != nil {
				return err
			}
			if len(documents) == 0 {
				return fmt.Errorf("no packing list documents given; pass files or --dir")
			}

			if outPath == "" {
				name := fmt.Sprintf("LISTAS_DE_EMPAQUE_CMP_%s.xlsx", time.Now().Format("2006-01-02"))
				outPath = filepath.Join(cfg.OutputDir, name)
			}

			db, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := pipeline.NewProcessingService(db, cfg)
			report, err := svc.Run(catalogPath, documents, outPath)
			if err != nil {
				return err
			}

			for _, res := range report.Succeeded {
				fmt.Printf("ok %s -> %s records=%d unmatched=%d\n",
					res.DocumentName, res.SheetName, len(res.Records), len(res.Unmatched))
			}
			for _, fail := range report.Failed {
				fmt.Printf("failed %s: %s\n", fail.DocumentName, fail.Kind.Reason())
			}
			if len(report.Succeeded) == 0 {
				fmt.Println("no documents processed, bundle not written")
				return nil
			}
			fmt.Printf("consolidation complete: %d ok, %d failed, output=%s\n",
				len(report.Succeeded), len(report.Failed), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "CONSOLIDADO reference workbook (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "output bundle path (default OUTPUT_DIR/LISTAS_DE_EMPAQUE_CMP_<date>.xlsx)")
	cmd.Flags().StringVar(&inputDir, "dir", "", "directory to scan for packing lists")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show how the header heuristics read one packing list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			svc := pipeline.NewProcessingService(nil, cfg)
			info, err := svc.Inspect(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("header row=%d span=%d\n", info.Header.StartRow, info.Header.RowSpan)
			fmt.Printf("columns group=%d item=%d quantity=%d\n",
				info.Roles.GroupKey, info.Roles.ItemCode, info.Roles.Quantity)
			fmt.Printf("records=%d\n", info.Records)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent consolidation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs recorded")
				return nil
			}
			for _, r := range runs {
				fmt.Printf("%d %s docs=%d ok=%d failed=%d records=%d unmatched=%d output=%s\n",
					r.ID, r.StartedAt, r.DocsTotal, r.DocsOK, r.DocsFailed, r.Records, r.Unmatched, r.OutputPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to list")
	return cmd
}

func collectDocuments(args []string, dir string) ([]string, error) {
	documents := append([]string{}, args...)
	if dir == "" {
		return documents, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fromDir := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xlsx", ".xlsm", ".xls", ".htm", ".html":
			fromDir = append(fromDir, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(fromDir)
	return append(documents, fromDir...), nil
}
