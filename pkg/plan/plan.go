package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/service"
)

// Plan is a job file listing the reports to build.
type Plan struct {
	OutputDir string   `yaml:"output_dir"`
	GroupsCSV bool     `yaml:"groups_csv"`
	Reports   []Report `yaml:"reports"`

	dir string
}

// Report is one entry of a job file. Dates are YYYY-MM-DD.
type Report struct {
	File      string     `yaml:"file"`
	Name      string     `yaml:"name"`
	Budget    string     `yaml:"budget"`
	Actual    string     `yaml:"actual"`
	Category  Categories `yaml:"category"`
	Date      string     `yaml:"date"`
	Start     string     `yaml:"start"`
	End       string     `yaml:"end"`
	AutoRange bool       `yaml:"auto_range"`
}

// Categories accepts either a single column name or a list.
type Categories []string

func (c *Categories) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Categories{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*c = list
	return nil
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Reports) == 0 {
		return nil, fmt.Errorf("plan has no reports")
	}
	for i, r := range p.Reports {
		if strings.TrimSpace(r.File) == "" {
			return nil, fmt.Errorf("report %d: file is required", i+1)
		}
		if strings.TrimSpace(r.Budget) == "" {
			return nil, fmt.Errorf("report %d (%s): budget is required", i+1, r.File)
		}
		if _, err := r.Range(); err != nil {
			return nil, fmt.Errorf("report %d (%s): %w", i+1, r.File, err)
		}
	}
	p.dir = filepath.Dir(path)
	return &p, nil
}

// Path resolves a path of the job file against the file's own directory.
func (p *Plan) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || p.dir == "" {
		return name
	}
	return filepath.Join(p.dir, name)
}

// Output returns the output directory, falling back to fallback when the
// job file sets none.
func (p *Plan) Output(fallback string) string {
	if p.OutputDir == "" {
		return fallback
	}
	return p.Path(p.OutputDir)
}

func (r Report) Mapping() models.ColumnMapping {
	return models.ColumnMapping{
		Budget:   r.Budget,
		Actual:   r.Actual,
		Category: []string(r.Category),
		Date:     r.Date,
	}
}

func (r Report) Range() (models.DateRange, error) {
	return models.ParseDateRange(r.Start, r.End)
}

// Request converts the entry into a pipeline request.
func (r Report) Request() (service.Request, error) {
	rng, err := r.Range()
	if err != nil {
		return service.Request{}, err
	}
	return service.Request{
		Name:      r.Name,
		Mapping:   r.Mapping(),
		Range:     rng,
		AutoRange: r.AutoRange,
	}, nil
}
