package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/de-tools/request-atlas/pkg/services/report"
	"github.com/spf13/cobra"
)

func NewFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields a report can group and filter by",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND")
			for _, f := range report.Fields() {
				fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Kind)
			}
			return w.Flush()
		},
	}
}
