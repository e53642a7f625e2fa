package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/staffyard/staffyard/internal/directory"
)

func newVacancyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacancy",
		Short: "Vacancy listing commands",
	}

	cmd.AddCommand(newVacancyListCmd())
	return cmd
}

func newVacancyListCmd() *cobra.Command {
	var (
		configPath   string
		year         int
		unit         string
		positionCode string
		status       string
		page         int
		perPage      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vacancies for a planning year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVacancyList(cmd, configPath, directory.VacancyFilters{
				Year:         year,
				Unit:         unit,
				PositionCode: positionCode,
				Status:       status,
				Page:         page,
				PerPage:      perPage,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "staffyard.yaml", "path to Staffyard config file")
	cmd.Flags().IntVar(&year, "year", 0, "planning year (required)")
	cmd.Flags().StringVar(&unit, "unit", "", "filter by unit")
	cmd.Flags().StringVar(&positionCode, "position-code", "", "filter by position code")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (open, filled)")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "results per page")
	cmd.MarkFlagRequired("year")
	return cmd
}

func runVacancyList(cmd *cobra.Command, configPath string, f directory.VacancyFilters) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	rows, total, err := directory.ListVacancies(gormDB, f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPOSITION\tUNIT\tCODE\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.PositionTitle, r.Unit, r.PositionCode, r.Status)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d of %d vacancies\n", len(rows), total)
	return nil
}
