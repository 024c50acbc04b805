package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sqldash-labs/sqldash/internal/catalog"
	"github.com/sqldash-labs/sqldash/internal/config"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the health of the registered databases",
		Long: `Check that every registered database can be opened and inspected.

Each database is opened read-only and its tables are enumerated. The
report lists the table and column counts per database and flags the
ones that could not be reached.`,
		Example: `  # Check all registered databases
  sqldash doctor

  # Machine-readable report
  sqldash doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json")

	return cmd
}

// DoctorReport is the JSON output for the doctor command.
type DoctorReport struct {
	ConfigFile string          `json:"config_file,omitempty"`
	DataDir    string          `json:"data_dir"`
	Databases  []DatabaseCheck `json:"databases"`
	Healthy    int             `json:"healthy"`
	Total      int             `json:"total"`
}

// DatabaseCheck is the health check result for one database.
type DatabaseCheck struct {
	Name    string `json:"name"`
	Driver  string `json:"driver"`
	Status  string `json:"status"` // "ok", "error"
	Tables  int    `json:"tables"`
	Columns int    `json:"columns"`
	Error   string `json:"error,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	report, err := buildDoctorReport(cmd, cmdCtx)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return renderDoctorTable(cmd, report)
}

func buildDoctorReport(cmd *cobra.Command, cmdCtx *CommandContext) (*DoctorReport, error) {
	report := &DoctorReport{
		ConfigFile: config.GetConfigFileUsed(),
		DataDir:    cmdCtx.Cfg.DataDir,
	}

	for _, name := range cmdCtx.Registry.Names() {
		entry, err := cmdCtx.Registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		check := DatabaseCheck{Name: entry.Name, Driver: entry.Driver}

		schema, err := catalog.InspectDatabase(cmd.Context(), cmdCtx.Registry, name)
		if err != nil {
			check.Status = "error"
			check.Error = err.Error()
		} else {
			check.Status = "ok"
			check.Tables = len(schema)
			for _, cols := range schema {
				check.Columns += len(cols)
			}
			report.Healthy++
		}

		report.Total++
		report.Databases = append(report.Databases, check)
	}

	return report, nil
}

func renderDoctorTable(cmd *cobra.Command, report *DoctorReport) error {
	out := cmd.OutOrStdout()

	if report.ConfigFile != "" {
		fmt.Fprintf(out, "Config file: %s\n", report.ConfigFile)
	} else {
		fmt.Fprintln(out, "Config file: none (using defaults)")
	}
	fmt.Fprintf(out, "Data directory: %s\n\n", report.DataDir)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Database", "Driver", "Status", "Tables", "Columns"})
	for _, check := range report.Databases {
		status := check.Status
		if check.Error != "" {
			status = fmt.Sprintf("%s: %s", check.Status, check.Error)
		}
		t.AppendRow(table.Row{check.Name, check.Driver, status, check.Tables, check.Columns})
	}
	t.Render()

	fmt.Fprintf(out, "\n%d of %d databases healthy\n", report.Healthy, report.Total)
	return nil
}
