package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/staffyard/staffyard/internal/directory"
)

func newPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Staff directory commands",
	}

	cmd.AddCommand(newPersonListCmd())
	cmd.AddCommand(newPersonImportCmd())
	return cmd
}

func newPersonListCmd() *cobra.Command {
	var (
		configPath   string
		year         int
		search       string
		unit         string
		positionCode string
		page         int
		perPage      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff directory entries",
		Long:  "Lists staff with optional filters. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonList(cmd, configPath, directory.CandidateFilters{
				Year:         year,
				Search:       search,
				Unit:         unit,
				PositionCode: positionCode,
				Page:         page,
				PerPage:      perPage,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "staffyard.yaml", "path to Staffyard config file")
	cmd.Flags().IntVar(&year, "year", 0, "planning year (required)")
	cmd.Flags().StringVar(&search, "search", "", "match against name and position title")
	cmd.Flags().StringVar(&unit, "unit", "", "filter by unit")
	cmd.Flags().StringVar(&positionCode, "position-code", "", "filter by position code")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "results per page")
	cmd.MarkFlagRequired("year")
	return cmd
}

func runPersonList(cmd *cobra.Command, configPath string, f directory.CandidateFilters) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	rows, total, err := directory.SearchCandidates(gormDB, f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRANK\tPOSITION\tUNIT\tCODE")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Rank, r.PositionTitle, r.Unit, r.PositionCode)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d of %d staff\n", len(rows), total)
	return nil
}

func newPersonImportCmd() *cobra.Command {
	var (
		configPath string
		year       int
		csvPath    string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import staff from CSV",
		Long: `Imports staff directory entries for a planning year from a CSV file.

The header row must contain at least name, position_title, and unit;
rank, position_code, position_code_label, and seniority are optional.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonImport(cmd, configPath, year, csvPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "staffyard.yaml", "path to Staffyard config file")
	cmd.Flags().IntVar(&year, "year", 0, "planning year (required)")
	cmd.Flags().StringVar(&csvPath, "file", "", "path to CSV file (required)")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runPersonImport(cmd *cobra.Command, configPath string, year int, csvPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", csvPath, err)
	}
	defer f.Close()

	count, err := directory.ImportStaff(gormDB, year, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d staff for %d\n", count, year)
	return nil
}
