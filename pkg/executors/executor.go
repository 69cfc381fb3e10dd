package executors

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/budgetu/pkg/service"
)

// Executor runs job files: Plan previews every report, Apply writes them.
type Executor struct {
	logger    *log.Logger
	processor *service.Processor
	out       io.Writer
}

func New(logger *log.Logger, processor *service.Processor, out io.Writer) *Executor {
	return &Executor{
		logger:    logger,
		processor: processor,
		out:       out,
	}
}
