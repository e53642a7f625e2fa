package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/staffyard/staffyard/internal/store"
)

func newTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Reassignment transaction commands",
	}

	cmd.AddCommand(newTransactionListCmd())
	cmd.AddCommand(newTransactionShowCmd())
	cmd.AddCommand(newTransactionDeleteCmd())
	return cmd
}

func newTransactionListCmd() *cobra.Command {
	var (
		configPath string
		year       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions for a planning year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransactionList(cmd, configPath, year)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "staffyard.yaml", "path to Staffyard config file")
	cmd.Flags().IntVar(&year, "year", 0, "planning year (required)")
	cmd.MarkFlagRequired("year")
	return cmd
}

func runTransactionList(cmd *cobra.Command, configPath string, year int) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	rows, err := store.ListTransactions(gormDB, year)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGROUP\tTYPE\tDATE\tPEOPLE")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
			r.ID, r.GroupNumber, r.SwapType, r.SwapDate.Format("2006-01-02"), len(r.Details))
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d transactions\n", len(rows))
	return nil
}

func newTransactionShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a transaction and its movements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}
			return runTransactionShow(cmd, configPath, uint(id))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "staffyard.yaml", "path to Staffyard config file")
	return cmd
}

func runTransactionShow(cmd *cobra.Command, configPath string, id uint) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	row, err := store.GetTransaction(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transaction %d (%s)\n", row.ID, row.GroupNumber)
	fmt.Fprintf(out, "Type: %s  Year: %d  Date: %s\n",
		row.SwapType, row.Year, row.SwapDate.Format("2006-01-02"))
	if row.GroupName != "" {
		fmt.Fprintf(out, "Group: %s\n", row.GroupName)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tFROM\tTO")
	for _, d := range row.Details {
		name := d.StaffName
		if d.StaffID == nil {
			name = "(placeholder)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s / %s\t%s / %s\n",
			d.Position+1, name,
			d.FromPositionTitle, d.FromUnit,
			d.ToPositionTitle, d.ToUnit)
	}
	w.Flush()
	return nil
}

func newTransactionDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction and its movements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}
			return runTransactionDelete(cmd, configPath, uint(id))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "staffyard.yaml", "path to Staffyard config file")
	return cmd
}

func runTransactionDelete(cmd *cobra.Command, configPath string, id uint) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := store.DeleteTransaction(gormDB, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
	return nil
}
