// =============================================================================
// Gensoft Converter - Conversion Session
// =============================================================================
//
// Shared state of the convert and process commands: staging, conversion,
// history and metrics for each file.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ballistic-tools/gensoft-converter/internal/converter"
	"github.com/ballistic-tools/gensoft-converter/internal/history"
	"github.com/ballistic-tools/gensoft-converter/internal/logging"
	"github.com/ballistic-tools/gensoft-converter/internal/telemetry"
	"github.com/ballistic-tools/gensoft-converter/internal/types"
	"github.com/ballistic-tools/gensoft-converter/internal/validation"
	"github.com/ballistic-tools/gensoft-converter/pkg/utils"
)

// session bundles what a conversion command needs. Conversions on one session
// may run concurrently.
type session struct {
	files   *utils.FileManager
	conv    *converter.Converter
	history *history.History
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// outcome is the result of one file.
type outcome struct {
	Source string
	Output string
	Result *converter.Result
	Err    error
}

func newSession() (*session, error) {
	hist, err := history.Open(appConfig.HistoryFile, appConfig.HistorySize)
	if err != nil {
		return nil, err
	}

	logger := logging.L()
	return &session{
		files: utils.NewFileManager(appConfig),
		conv: converter.New(
			converter.WithLogger(logger),
			converter.WithCSVSettings(appConfig.CSV),
		),
		history: hist,
		metrics: telemetry.New(),
		logger:  logger,
	}, nil
}

// convert runs one conversion of src into output and records the attempt.
// When stage is set, src is first copied into the upload directory and the
// staged copy is converted.
func (s *session) convert(ctx context.Context, src, output string, stage bool) outcome {
	out := outcome{Source: src, Output: output}

	input := src
	if stage {
		staged, err := s.files.StageInput(src)
		if err != nil {
			out.Err = err
			s.record(out)
			return out
		}
		s.logger.Debug("staged input", "source", src, "staged", staged)
		input = staged
	} else if !s.files.AllowedFile(src) {
		out.Err = fmt.Errorf("%s: %w", filepath.Base(src), utils.ErrUnsupportedFile)
		s.record(out)
		return out
	}

	out.Result, out.Err = s.conv.Convert(ctx, input, output)
	s.record(out)
	return out
}

// record adds the outcome to history and metrics.
func (s *session) record(o outcome) {
	entry := history.Entry{
		OriginalFilename: filepath.Base(o.Source),
		Status:           history.StatusSuccess,
	}

	if o.Err != nil {
		entry.Status = history.StatusError
		entry.ErrorMessage = o.Err.Error()
		var verr *validation.ValidationError
		if errors.As(o.Err, &verr) {
			entry.MissingColumns = verr.Missing
		}
		s.metrics.ObserveFailure(failureStatus(o.Err))
	} else {
		entry.OutputFilename = filepath.Base(o.Output)
		entry.OutputPath = o.Output
		entry.Rows = o.Result.RowCount()
		s.metrics.ObserveSuccess(o.Result.RowCount(), o.Result.Stats.ProcessingTime)
	}

	s.history.Record(entry)
}

// close persists history and metrics. Failures are logged, not returned, so
// they never mask the command's own result.
func (s *session) close() {
	if err := s.history.Save(); err != nil {
		s.logger.Error("failed to save history", "error", err)
	}
	if appConfig.MetricsFile != "" {
		if err := s.metrics.WriteTextfile(appConfig.MetricsFile); err != nil {
			s.logger.Error("failed to write metrics", "error", err)
		}
	}
}

// failureStatus classifies a conversion error for metrics.
func failureStatus(err error) string {
	var rerr *types.ReadError
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		return telemetry.StatusValidation
	case errors.As(err, &rerr),
		errors.Is(err, utils.ErrUnsupportedFile),
		errors.Is(err, utils.ErrFileTooLarge):
		return telemetry.StatusReadError
	default:
		return telemetry.StatusWriteError
	}
}

// describeError renders err for the terminal.
func describeError(err error) string {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return "Missing required columns: " + strings.Join(verr.Missing, ", ")
	}
	var rerr *types.ReadError
	if errors.As(err, &rerr) {
		return fmt.Sprintf("Could not read %s: %v", filepath.Base(rerr.Path), rerr.Err)
	}
	return err.Error()
}
