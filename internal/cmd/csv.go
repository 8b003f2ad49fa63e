package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milluces/milluces-backend/internal/csvio"
	"github.com/milluces/milluces-backend/internal/customer"
	"github.com/milluces/milluces-backend/internal/user"
)

// table is a CSV-backed list the CLI can move in and out.
type table interface {
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (csvio.Report, error)
}

var tables = map[string]func(e *env) table{
	"customers": func(e *env) table {
		return customer.NewService(customer.NewPostgresRepository(e.db), e.log)
	},
	"users": func(e *env) table {
		return user.NewService(user.NewPostgresRepository(e.db), e.log)
	},
}

var (
	exportOut string
	importIn  string
)

var exportCmd = &cobra.Command{
	Use:       "export customers|users",
	Short:     "Write the customer or user list as CSV",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"customers", "users"},
	RunE:      runExport,
}

var importCmd = &cobra.Command{
	Use:       "import customers|users",
	Short:     "Load customers or users from a CSV file",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"customers", "users"},
	RunE:      runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	importCmd.Flags().StringVarP(&importIn, "in", "i", "", "CSV file to read")
	_ = importCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	t := tables[args[0]](e)
	write := func(w io.Writer) error { return t.Export(cmd.Context(), w) }
	if exportOut == "" {
		err = write(cmd.OutOrStdout())
	} else {
		err = writeFile(exportOut, write)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", args[0], err)
	}
	e.log.Info("export finished", zap.String("table", args[0]), zap.String("out", exportOut))
	return nil
}

// writeFile creates path and runs write on it. A failed close is reported.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(importIn)
	if err != nil {
		return err
	}
	defer f.Close()

	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	report, err := tables[args[0]](e).Import(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, r csvio.Report) {
	fmt.Fprintf(w, "inserted: %d\nupdated: %d\nfailed: %d\n", r.Inserted, r.Updated, r.Failed)
	for _, re := range r.Errors {
		fmt.Fprintf(w, "  row %d: %s\n", re.Row, re.Message)
	}
}
