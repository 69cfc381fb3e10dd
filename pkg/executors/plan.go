package executors

import (
	"context"
	"fmt"

	"github.com/yurifrl/budgetu/pkg/plan"
)

// Plan builds every report of the job without writing anything and prints
// a preview of each.
func (e *Executor) Plan(ctx context.Context, p *plan.Plan) error {
	for _, r := range p.Reports {
		e.logger.Debug("planning report", "file", r.File)

		req, err := r.Request()
		if err != nil {
			return fmt.Errorf("%s: %w", r.File, err)
		}
		model, failures, err := e.processor.BuildFile(ctx, p.Path(r.File), req)
		if err != nil {
			return fmt.Errorf("%s: %w", r.File, err)
		}

		fmt.Fprintf(e.out, "\n%s (%d rows, %d groups", r.File, model.Rows.Len(), len(model.Groups))
		if failures > 0 {
			fmt.Fprintf(e.out, ", %d unparsed cells", failures)
		}
		fmt.Fprintln(e.out, ")")
		fmt.Fprint(e.out, Preview(model, e.processor.Locale()))
	}

	fmt.Fprintf(e.out, "\nPlan: %d report(s) will be written\n", len(p.Reports))
	return nil
}
