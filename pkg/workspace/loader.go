// Package workspace loads everything a viewing session needs: the design
// hierarchy and, when given, the wave file. The two inputs are independent
// so they load concurrently.
package workspace

import (
	"context"
	"fmt"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/dau-dev/simview/pkg/design"
	"github.com/dau-dev/simview/pkg/wave"
)

// Inputs names the files to load. WavePath may be empty.
type Inputs struct {
	DesignPath string
	WavePath   string
}

// Result is a fully loaded session. Wave is nil when no wave file was
// requested.
type Result struct {
	Design *design.Design
	Wave   *wave.Wave
}

// Loader loads session inputs.
type Loader struct {
	logger *log.Logger
}

// NewLoader creates a loader. Logging is silent by default; callers opt in
// via SetLogger.
func NewLoader() *Loader {
	return &Loader{logger: log.New(io.Discard, "", 0)}
}

// SetLogger sets a custom logger for progress reporting.
func (l *Loader) SetLogger(logger *log.Logger) {
	l.logger = logger
}

// Load reads the design and wave files concurrently. The design is
// mandatory; a missing wave path just yields a nil Wave. Either file
// failing to parse fails the whole load, since a half-initialized session
// is worse than an error message.
func (l *Loader) Load(ctx context.Context, in Inputs) (Result, error) {
	if in.DesignPath == "" {
		return Result{}, fmt.Errorf("no design file given")
	}

	var res Result
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, err := design.Load(in.DesignPath)
		if err != nil {
			return fmt.Errorf("design: %w", err)
		}
		res.Design = d
		l.logger.Printf("loaded design %s", in.DesignPath)
		return nil
	})

	if in.WavePath != "" {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := wave.LoadVCD(in.WavePath)
			if err != nil {
				return fmt.Errorf("wave: %w", err)
			}
			res.Wave = w
			l.logger.Printf("loaded wave %s", in.WavePath)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}
