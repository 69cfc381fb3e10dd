package executors

import (
	"context"
	"fmt"

	"github.com/yurifrl/budgetu/pkg/plan"
	"github.com/yurifrl/budgetu/pkg/service"
)

// Apply builds and writes every report of the job into outDir. It stops at
// the first structural error. When one artifact fails to export, the other
// is still written and the export error is returned.
func (e *Executor) Apply(ctx context.Context, p *plan.Plan, outDir string) ([]string, error) {
	e.logger.Debug("applying plan", "reports", len(p.Reports), "output", outDir)

	var written []string
	for _, r := range p.Reports {
		req, err := r.Request()
		if err != nil {
			return written, fmt.Errorf("%s: %w", r.File, err)
		}

		res, err := e.processor.ProcessFile(ctx, p.Path(r.File), req)
		if err != nil {
			return written, fmt.Errorf("%s: %w", r.File, err)
		}

		paths, err := service.WriteArtifacts(outDir, res, p.GroupsCSV)
		written = append(written, paths...)
		if err != nil {
			return written, err
		}
		for _, path := range paths {
			fmt.Fprintf(e.out, "+ %s\n", path)
		}
		if err := res.Err(); err != nil {
			return written, fmt.Errorf("%s: %w", r.File, err)
		}
		e.logger.Info("report written", "file", r.File, "name", res.Name, "artifacts", len(paths))
	}
	return written, nil
}
