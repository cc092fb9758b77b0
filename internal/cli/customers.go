package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/a3tai/policy-tracker/internal/customer"
	"github.com/a3tai/policy-tracker/internal/lifecycle"
	"github.com/a3tai/policy-tracker/internal/policy"
)

// recordFlagNames are the per-field flags, in record field order.
var recordFlagNames = [policy.FieldCount]string{
	"name", "tc", "phone", "license", "plate",
	"policy-no", "company", "type", "start", "end",
}

var recordFlagUsage = [policy.FieldCount]string{
	"Customer full name",
	"11 digit national ID",
	"Phone number",
	"Vehicle license (ruhsat) number",
	"Vehicle plate",
	"Policy number",
	"Insurance company",
	"Insurance type (Kasko, Trafik Sigortası, DASK, Diğer)",
	"Policy start date (DD.MM.YYYY or text like \"15 Mart 2024\")",
	"Policy end date (DD.MM.YYYY or text like \"15 Mart 2025\")",
}

func addRecordFlags(fs *pflag.FlagSet) {
	for i, name := range recordFlagNames {
		fs.String(name, "", recordFlagUsage[i])
	}
}

// applyRecordFlags overrides the fields of base whose flag was set.
func applyRecordFlags(fs *pflag.FlagSet, base policy.Record) (policy.Record, error) {
	fields := base.Fields()
	for i, name := range recordFlagNames {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return policy.Record{}, err
		}
		fields[i] = v
	}
	return policy.FromFields(fields[:]), nil
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id: %s", arg)
	}
	return uint(id), nil
}

func newExtractCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Read a policy PDF and print the candidate record",
		Long: `Read a policy PDF and print the candidate record without saving it.

Relative paths are resolved against the import directory (--dir).`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			rec, err := app.Customers.ImportPDF(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			printRecord(cmd.OutOrStdout(), rec)
			if !policy.ValidNationalID(rec.NationalID) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: national ID is masked or incomplete; correct it before saving")
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the record as JSON")
	return cmd
}

func newAddCmd() *cobra.Command {
	var fromPDF string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a customer record",
		Long: `Save a customer record built from flags.

With --from-pdf the record is first extracted from the document and the
field flags override what was found.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *App) error {
			var base policy.Record
			if fromPDF != "" {
				rec, err := app.Customers.ImportPDF(cmd.Context(), fromPDF)
				if err != nil {
					return err
				}
				base = rec
			}

			rec, err := applyRecordFlags(cmd.Flags(), base)
			if err != nil {
				return err
			}

			id, err := app.Customers.Save(cmd.Context(), rec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: saved customer %d\n", id)
			return nil
		}),
	}

	cmd.Flags().StringVar(&fromPDF, "from-pdf", "", "Start from the record extracted from this PDF")
	addRecordFlags(cmd.Flags())
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		filter string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers grouped by policy status",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *App) error {
			listing, err := app.Customers.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), listing)
			}
			return printListing(cmd.OutOrStdout(), listing)
		}),
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only customers whose name contains this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a customer record",
		Long:  "Change fields of a customer record. Fields without a flag keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := app.Customers.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			rec, err := applyRecordFlags(cmd.Flags(), current.Record)
			if err != nil {
				return err
			}

			if err := app.Customers.Update(cmd.Context(), id, rec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: updated customer %d\n", id)
			return nil
		}),
	}

	addRecordFlags(cmd.Flags())
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a customer record",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Customers.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: deleted customer %d\n", id)
			return nil
		}),
	}
}

func newCompaniesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "Print the insurance company list",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *App) error {
			for _, c := range app.Customers.Companies() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		}),
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecord(w io.Writer, rec policy.Record) {
	for i, value := range rec.Fields() {
		fmt.Fprintf(w, "%-13s %s\n", policy.FieldLabels[i]+":", value)
	}
}

// printListing writes one table per status, expiring soon first.
func printListing(w io.Writer, listing customer.Listing) error {
	fmt.Fprintf(w, "%d customers on %s (expiring window %d days)\n",
		listing.Buckets.Len(), listing.Today, listing.WindowDays)

	for _, status := range []lifecycle.Status{lifecycle.ExpiringSoon, lifecycle.Expired, lifecycle.Active} {
		rows := listing.Buckets.Of(status)
		fmt.Fprintf(w, "\n%s (%d)\n", status.Label(), len(rows))
		if len(rows) == 0 {
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprint(tw, "ID")
		for _, label := range policy.FieldLabels {
			fmt.Fprintf(tw, "\t%s", label)
		}
		fmt.Fprintln(tw)
		for _, row := range rows {
			fmt.Fprintf(tw, "%d", row.ID)
			for _, value := range row.Fields() {
				fmt.Fprintf(tw, "\t%s", value)
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
