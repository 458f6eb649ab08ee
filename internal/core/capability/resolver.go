package capability

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Conventional names the vendored engine has shipped under.
const (
	EngineClass    = "FaturaAnalizMotoru"
	FunctionModule = "main"
)

var (
	classModules  = []string{"fatura_analiz_motoru", "main", "app"}
	functionNames = []string{"analiz_et", "analyze", "analyze_file", "run_analysis"}
)

// DefaultCandidates returns the class candidates followed by the function
// fallback, in priority order.
func DefaultCandidates(configPath string) []Descriptor {
	out := make([]Descriptor, 0, len(classModules)+1)
	for _, m := range classModules {
		out = append(out, ClassDescriptor{Module: m, Class: EngineClass, ConfigPath: configPath})
	}
	fns := make([]string, len(functionNames))
	copy(fns, functionNames)
	return append(out, FunctionDescriptor{Module: FunctionModule, Funcs: fns})
}

// Resolver binds the first candidate that yields a usable target.
type Resolver struct {
	registry   *Registry
	candidates []Descriptor
	logger     zerolog.Logger
}

func NewResolver(reg *Registry, logger zerolog.Logger, candidates ...Descriptor) *Resolver {
	return &Resolver{registry: reg, candidates: candidates, logger: logger}
}

// Resolve walks the candidates in order. Errors from individual candidates
// are logged and skipped; only exhausting the list is an error.
func (r *Resolver) Resolve(ctx context.Context) (*Capability, error) {
	for i, c := range r.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target, err := c.TryResolve(ctx, r.registry)
		if err != nil {
			r.logger.Debug().Err(err).Int("candidate", i).Str("source", c.String()).Msg("capability candidate skipped")
			continue
		}
		r.logger.Info().Int("candidate", i).Str("source", c.String()).Msg("capability resolved")
		return &Capability{target: target, source: c.String()}, nil
	}
	return nil, fmt.Errorf("%w (%d candidates tried)", ErrCapabilityNotFound, len(r.candidates))
}
