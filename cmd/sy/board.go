package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/staffyard/staffyard/internal/store"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Planning board commands",
	}

	cmd.AddCommand(newBoardShowCmd())
	return cmd
}

func newBoardShowCmd() *cobra.Command {
	var (
		configPath string
		year       int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved board for a planning year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoardShow(cmd, configPath, year)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "staffyard.yaml", "path to Staffyard config file")
	cmd.Flags().IntVar(&year, "year", 0, "planning year (required)")
	cmd.MarkFlagRequired("year")
	return cmd
}

func runBoardShow(cmd *cobra.Command, configPath string, year int) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	st, err := store.LoadBoard(gormDB, year)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Board %d: %d lanes, %d people\n\n", st.Year, len(st.Lanes), len(st.Personnel))

	for _, l := range st.Lanes {
		status := ""
		if l.IsCompleted {
			status = "  [completed]"
		}
		group := l.GroupNumber
		if group == "" {
			group = "-"
		}
		fmt.Fprintf(out, "%s (%s, %s)%s\n", l.Title, l.ChainType, group, status)

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for i, id := range l.ItemIDs {
			rec := st.Record(id)
			if rec == nil {
				continue
			}
			name := rec.Name
			if rec.IsPlaceholder {
				name = "(placeholder)"
			}
			dest := "-"
			if rec.Destination != nil {
				dest = fmt.Sprintf("%s / %s", rec.Destination.Title, rec.Destination.Unit)
			}
			fmt.Fprintf(w, "  %d.\t%s\t%s\t→ %s\n", i+1, name, rec.PositionTitle, dest)
		}
		w.Flush()
		fmt.Fprintln(out)
	}
	return nil
}
