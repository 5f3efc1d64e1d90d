package commands

import (
	"fmt"

	"github.com/de-tools/request-atlas/pkg/models/domain"
	"github.com/de-tools/request-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/request-atlas/pkg/services/report"
	reportsql "github.com/de-tools/request-atlas/pkg/store/sql"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	env     Env
	fields  []string
	filters []string
	all     bool
	format  string
}

func NewReportCmd(env Env) *cobra.Command {
	rc := &ReportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a grouped count report over service requests",
		Example: `  atlas report --field type_name --field created_date
  atlas report --field council_name --filter created_date>=2021-01-01 --filter council_name=Arleta
  atlas report --field created_year --all --format json`,
		RunE: rc.run,
	}

	cmd.Flags().StringArrayVar(&rc.fields, "field", nil, "Field to group by (repeatable, default type_name, created_date)")
	cmd.Flags().StringArrayVar(&rc.filters, "filter", nil, "Filter clause field<op>value (repeatable, default start of previous month)")
	cmd.Flags().BoolVar(&rc.all, "all", false, "Do not apply the default filter")
	cmd.Flags().StringVar(&rc.format, "format", string(export.FormatTable), "Output format (table or json)")

	cmd.MarkFlagsMutuallyExclusive("filter", "all")

	return cmd
}

func (rc *ReportCmd) request() (domain.ReportRequest, error) {
	var req domain.ReportRequest
	for _, f := range rc.fields {
		if err := report.ValidateField(f); err != nil {
			return req, err
		}
	}
	for _, f := range rc.filters {
		if err := report.ValidateFilter(f); err != nil {
			return req, err
		}
	}
	req.Fields = rc.fields
	req.Filters = rc.filters
	if rc.all {
		req.Filters = []string{}
	}
	return req, nil
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	reporter, err := export.NewReporter(cmd.OutOrStdout(), export.Format(rc.format))
	if err != nil {
		return err
	}
	req, err := rc.request()
	if err != nil {
		return err
	}

	cfg, err := rc.env.Config()
	if err != nil {
		return err
	}
	loc, err := cfg.Report.Location()
	if err != nil {
		return err
	}

	db, err := rc.env.OpenDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := reportsql.NewReportStore(db, cfg.Report.QueryTimeout)
	if err != nil {
		return err
	}
	svc := report.NewService(store, report.Settings{Location: loc})

	rows, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to run report: %w", err)
	}

	return reporter.Handle(rows)
}
