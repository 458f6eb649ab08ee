// Package vendorcli exposes a vendored, executable invoice analysis engine to
// the capability registry.
//
// The vendor directory is expected to hold its executables under bin/:
//
//	<vendor>/bin/fatura_analiz_motoru   engine class, one process per analysis
//	<vendor>/bin/analiz_et              free function entry points, probed in
//	<vendor>/bin/analyze                the order the resolver asks for them
//	<vendor>/bin/analyze_file
//	<vendor>/bin/run_analysis
//
// Every executable prints its result as a single JSON document on stdout.
package vendorcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/fatura-gateway/internal/core/capability"
)

const (
	ClassModule = "fatura_analiz_motoru"

	flagConfig    = "--config"
	flagVisualize = "--gorsellestir"

	// exit status argparse-style CLIs use for usage errors
	usageExitCode = 2
)

// FuncNames are the free-function executables looked up under bin/.
var FuncNames = []string{"analiz_et", "analyze", "analyze_file", "run_analysis"}

var probeTimeout = 10 * time.Second

// Engine is a constructed instance of the class executable.
type Engine struct {
	exe        string
	configPath string
	flags      map[string]bool
	logger     zerolog.Logger
}

// NewEngine probes exe for the flags it understands. kw may carry
// config_path; passing it to an executable without --config is a signature
// mismatch.
func NewEngine(exe string, kw capability.Kwargs, logger zerolog.Logger) (*Engine, error) {
	if err := capability.UnexpectedKeyword(kw, capability.KwConfigPath); err != nil {
		return nil, err
	}
	if !isExecutable(exe) {
		return nil, fmt.Errorf("engine executable %s: %w", exe, os.ErrNotExist)
	}

	flags, err := probeFlags(exe)
	if err != nil {
		return nil, err
	}
	e := &Engine{exe: exe, flags: flags, logger: logger}

	if cfg, ok := kw.String(capability.KwConfigPath); ok {
		if !flags[flagConfig] {
			return nil, fmt.Errorf("%w: %s does not accept %s", capability.ErrSignatureMismatch, filepath.Base(exe), flagConfig)
		}
		e.configPath = cfg
	}
	return e, nil
}

// AnalizEt runs one analysis of path.
func (e *Engine) AnalizEt(ctx context.Context, path string, kw capability.Kwargs) (any, error) {
	if err := capability.UnexpectedKeyword(kw, capability.KwVisualize); err != nil {
		return nil, err
	}
	var args []string
	if e.configPath != "" {
		args = append(args, flagConfig, e.configPath)
	}
	args = append(args, path)
	if v, ok := kw.Bool(capability.KwVisualize); ok {
		if !e.flags[flagVisualize] {
			return nil, fmt.Errorf("%w: %s does not accept %s", capability.ErrSignatureMismatch, filepath.Base(e.exe), flagVisualize)
		}
		args = append(args, flagVisualize+"="+strconv.FormatBool(v))
	}
	return run(ctx, e.logger, e.exe, args...)
}

// Function returns a target running a free-function executable as
// `<exe> <path> [--gorsellestir=<bool>]`.
func Function(exe string, logger zerolog.Logger) capability.Target {
	return func(ctx context.Context, path string, kw capability.Kwargs) (any, error) {
		if err := capability.UnexpectedKeyword(kw, capability.KwVisualize); err != nil {
			return nil, err
		}
		args := []string{path}
		if v, ok := kw.Bool(capability.KwVisualize); ok {
			args = append(args, flagVisualize+"="+strconv.FormatBool(v))
		}
		return run(ctx, logger, exe, args...)
	}
}

func run(ctx context.Context, logger zerolog.Logger, exe string, args ...string) (any, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug().Str("exe", exe).Strs("args", args).Msg("running engine")

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(exe), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == usageExitCode &&
			strings.Contains(stderr.String(), "unrecognized arguments") {
			return nil, fmt.Errorf("%w: %s", capability.ErrSignatureMismatch, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s failed: %w, output: %s", filepath.Base(exe), err, strings.TrimSpace(stderr.String()))
	}

	dec := json.NewDecoder(&stdout)
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s output: %w", filepath.Base(exe), err)
	}
	return out, nil
}

// probeFlags runs `exe --help` and records which optional flags it lists.
func probeFlags(exe string) (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, exe, "--help").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("probe %s --help: %w, output: %s", filepath.Base(exe), err, strings.TrimSpace(string(out)))
	}
	help := string(out)
	return map[string]bool{
		flagConfig:    strings.Contains(help, flagConfig),
		flagVisualize: strings.Contains(help, flagVisualize),
	}, nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
