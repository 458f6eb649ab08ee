package capability

import "context"

// Method shapes an engine instance may expose. They are probed in the order
// of methodProbes; the first one the instance implements is bound.
type (
	AnalizEtter interface {
		AnalizEt(ctx context.Context, path string, kw Kwargs) (any, error)
	}
	Analyzer interface {
		Analyze(ctx context.Context, path string, kw Kwargs) (any, error)
	}
	FileAnalyzer interface {
		AnalyzeFile(ctx context.Context, path string, kw Kwargs) (any, error)
	}
	FaturaAnalizEtter interface {
		FaturaAnalizEt(ctx context.Context, path string, kw Kwargs) (any, error)
	}
)

type methodProbe struct {
	name string
	bind func(v any) (Target, bool)
}

var methodProbes = []methodProbe{
	{"analiz_et", func(v any) (Target, bool) {
		m, ok := v.(AnalizEtter)
		if !ok {
			return nil, false
		}
		return m.AnalizEt, true
	}},
	{"analyze", func(v any) (Target, bool) {
		m, ok := v.(Analyzer)
		if !ok {
			return nil, false
		}
		return m.Analyze, true
	}},
	{"analyze_file", func(v any) (Target, bool) {
		m, ok := v.(FileAnalyzer)
		if !ok {
			return nil, false
		}
		return m.AnalyzeFile, true
	}},
	{"fatura_analiz_et", func(v any) (Target, bool) {
		m, ok := v.(FaturaAnalizEtter)
		if !ok {
			return nil, false
		}
		return m.FaturaAnalizEt, true
	}},
}

// MethodNames returns the probed method names in priority order.
func MethodNames() []string {
	out := make([]string, len(methodProbes))
	for i, p := range methodProbes {
		out[i] = p.name
	}
	return out
}

// bindMethod returns the first probed method v implements.
func bindMethod(v any) (string, Target, bool) {
	if v == nil {
		return "", nil, false
	}
	for _, p := range methodProbes {
		if t, ok := p.bind(v); ok && t != nil {
			return p.name, t, true
		}
	}
	return "", nil, false
}
