package vendorcli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/fatura-gateway/internal/core/capability"
)

// Modules builds the class module and the free-function module for
// vendorDir. Free functions are picked up from the executables present when
// Modules is called; both modules fail to import while vendorDir is missing.
func Modules(vendorDir string, logger zerolog.Logger) []*capability.Module {
	bin := filepath.Join(vendorDir, "bin")
	logger = logger.With().Str("engine", "vendorcli").Logger()
	checkDir := func() error {
		info, err := os.Stat(vendorDir)
		if err != nil {
			return fmt.Errorf("vendor dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vendor dir %s is not a directory", vendorDir)
		}
		return nil
	}

	classExe := filepath.Join(bin, ClassModule)
	class := &capability.Module{
		Name: ClassModule,
		Init: checkDir,
		Classes: map[string]capability.Constructor{
			capability.EngineClass: func(kw capability.Kwargs) (any, error) {
				return NewEngine(classExe, kw, logger)
			},
		},
	}

	funcs := make(map[string]capability.Target)
	for _, name := range FuncNames {
		exe := filepath.Join(bin, name)
		if isExecutable(exe) {
			funcs[name] = Function(exe, logger)
		}
	}
	fn := &capability.Module{
		Name:  capability.FunctionModule,
		Init:  checkDir,
		Funcs: funcs,
	}
	return []*capability.Module{class, fn}
}

// Register adds the vendor modules to reg.
func Register(reg *capability.Registry, vendorDir string, logger zerolog.Logger) error {
	for _, m := range Modules(vendorDir, logger) {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}
