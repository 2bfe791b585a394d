package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/terraincognita07/venus/internal/db"
	"gorm.io/gorm"
)

// RunInspectCommand prints the row count of every application table.
func RunInspectCommand(database *gorm.DB, out io.Writer) error {
	counts, err := db.NewRepositories(database).TableCounts()
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "TABLE\tROWS")
	for _, count := range counts {
		fmt.Fprintf(writer, "%s\t%d\n", count.Table, count.Rows)
	}
	return writer.Flush()
}
