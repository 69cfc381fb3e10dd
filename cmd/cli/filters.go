package main

import (
	"github.com/spf13/cobra"

	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/service"
)

// mappingFlags holds the column mapping and date range of generate.
type mappingFlags struct {
	budget    string
	actual    string
	category  []string
	date      string
	startDate string
	endDate   string
	name      string
	autoRange bool
	groupsCSV bool
}

func (f *mappingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.budget, "budget", "", "Budget column (required)")
	cmd.Flags().StringVar(&f.actual, "actual", "", "Actual spend column")
	cmd.Flags().StringArrayVar(&f.category, "category", nil, "Category column, repeat for a composite key")
	cmd.Flags().StringVar(&f.date, "date", "", "Date column used by --start/--end")
	cmd.Flags().StringVar(&f.startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.name, "name", "", "Artifact base name (default is the dataset file name)")
	cmd.Flags().BoolVar(&f.autoRange, "auto-range", false, "Default the range to the earliest and latest date")
	cmd.Flags().BoolVar(&f.groupsCSV, "groups-csv", false, "Also write the grouped sums as CSV")
	cmd.Flags().StringP("out", "o", "", "Output directory")
	cmd.Flags().String("title", "", "Report title")
	_ = cmd.MarkFlagRequired("budget")
}

func (f *mappingFlags) request() (service.Request, error) {
	rng, err := models.ParseDateRange(f.startDate, f.endDate)
	if err != nil {
		return service.Request{}, err
	}
	return service.Request{
		Name: f.name,
		Mapping: models.ColumnMapping{
			Budget:   f.budget,
			Actual:   f.actual,
			Category: f.category,
			Date:     f.date,
		},
		Range:     rng,
		AutoRange: f.autoRange,
	}, nil
}
