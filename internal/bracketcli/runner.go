package bracketcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/seedline/internal/adapters/upstream"
	"github.com/okian/seedline/internal/domain/engine"
	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/internal/domain/tables"
	"github.com/okian/seedline/pkg/logger"
)

// Run evaluates one set of inputs and writes the brackets to w.
func Run(ctx context.Context, config *Config, w io.Writer) error {
	modes, err := parseModes(config.Mode)
	if err != nil {
		return err
	}

	logger.Get().Info(ctx, "starting seedline evaluation",
		logger.String("inputs", config.InputsFile),
		logger.String("tables", config.TablesFile),
		logger.String("mode", config.Mode),
		logger.Bool("json", config.JSON))

	// Step 1: Build the engine
	eng, err := buildEngine(ctx, config)
	if err != nil {
		return fmt.Errorf("engine setup failed: %w", err)
	}

	// Step 2: Load or fetch the inputs
	in, failed, err := loadInputs(ctx, config)
	if err != nil {
		return fmt.Errorf("loading inputs failed: %w", err)
	}
	if len(in.Rankings) == 0 {
		return ErrNoInputs
	}

	// Step 3: Evaluate every mode at once
	res, err := eng.Evaluate(in)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	logger.Get().Info(ctx, "evaluation complete",
		logger.Int("teams", len(res.Teams)),
		logger.Int("duplicates", res.Duplicates))

	out := Output{
		TablesVersion: tables.Version,
		Teams:         len(res.Teams),
		Duplicates:    res.Duplicates,
		Failed:        failed,
	}
	for _, m := range modes {
		out.Brackets = append(out.Brackets, viewOf(res.Brackets[m]))
	}

	// Step 4: Render
	if config.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return renderText(w, out)
}

func parseModes(s string) ([]model.Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "both") {
		return model.Modes, nil
	}
	m, err := model.ParseMode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadMode, s)
	}
	return []model.Mode{m}, nil
}

func buildEngine(ctx context.Context, config *Config) (*engine.Engine, error) {
	if config.TablesFile == "" {
		return engine.New(tables.Default())
	}
	t, err := tables.Load(ctx, config.TablesFile)
	if err != nil {
		return nil, err
	}
	return engine.New(t)
}

// loadInputs reads the inputs file, or fetches live when none is given.
// The second return lists upstream sources that failed.
func loadInputs(ctx context.Context, config *Config) (model.Inputs, []string, error) {
	if config.InputsFile != "" {
		in, err := readInputs(config.InputsFile)
		return in, nil, err
	}

	var clientOpts []upstream.ClientOption
	if config.BaseURL != "" {
		clientOpts = append(clientOpts, upstream.WithBaseURL(config.BaseURL))
	}
	opts := []upstream.Option{upstream.WithLogger(logger.Get().Named("upstream"))}
	if config.Timeout > 0 {
		opts = append(opts, upstream.WithTimeout(config.Timeout))
	}
	in, report := upstream.NewFetcher(upstream.NewClient(clientOpts...), opts...).Fetch(ctx)
	failed := report.Failed()
	if len(failed) > 0 {
		logger.Get().Warn(ctx, "some upstream sources failed", logger.Any("sources", failed))
	}
	if !report.OK(upstream.KindRankings) {
		return model.Inputs{}, failed, fmt.Errorf("%w: rankings source failed", ErrNoInputs)
	}
	return in, failed, nil
}

func readInputs(path string) (model.Inputs, error) {
	var in model.Inputs
	file, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return in, fmt.Errorf("failed to open inputs: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()
	if err := json.NewDecoder(file).Decode(&in); err != nil {
		return in, fmt.Errorf("failed to decode inputs: %w", err)
	}
	return in, nil
}
