package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/budgetu/pkg/format"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/service"
)

type column struct {
	Name   string
	Kinds  map[string]int
	Sample []string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <dataset>",
	Short: "Show the columns and first rows of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		ds, err := service.NewProcessor(cfg.Service(), logger).Inspect(args[0])
		if err != nil {
			return err
		}

		n, _ := cmd.Flags().GetInt("rows")
		n = min(n, ds.Len())

		if dump, _ := cmd.Flags().GetBool("dump"); dump {
			printer := pp.New()
			printer.SetOutput(os.Stdout)
			printer.Println(describe(ds, n))
			return nil
		}

		fmt.Printf("%s: %d rows, %d columns\n", args[0], ds.Len(), len(ds.Columns()))
		fmt.Println(strings.Join(ds.Columns(), " | "))
		for i := 0; i < n; i++ {
			row := ds.Row(i)
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = cfg.Locale.Cell(v)
			}
			fmt.Println(strings.Join(cells, " | "))
		}
		return nil
	},
}

// describe counts the value kinds of every column and keeps up to n samples.
func describe(ds *models.Dataset, n int) []column {
	cols := ds.Columns()
	out := make([]column, len(cols))
	for c, name := range cols {
		out[c] = column{Name: name, Kinds: map[string]int{}}
		values, _ := ds.Column(name)
		for i, v := range values {
			out[c].Kinds[v.Kind().String()]++
			if i < n {
				out[c].Sample = append(out[c].Sample, format.Indonesian.Cell(v))
			}
		}
	}
	return out
}
