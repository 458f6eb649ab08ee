package capability

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Descriptor is one candidate location of an analysis capability.
type Descriptor interface {
	String() string
	TryResolve(ctx context.Context, reg *Registry) (Target, error)
}

// ClassDescriptor locates a constructible engine class inside a module.
//
// ConfigPath points at an optional engine config file. When the file exists
// the constructor is first called with the config_path keyword.
type ClassDescriptor struct {
	Module     string
	Class      string
	ConfigPath string
}

func (d ClassDescriptor) String() string {
	return "class " + d.Module + "." + d.Class
}

// TryResolve imports the module, constructs the class and binds the first
// analysis method the instance exposes.
func (d ClassDescriptor) TryResolve(ctx context.Context, reg *Registry) (target Target, err error) {
	defer recoverInto(&err)

	mod, err := reg.Import(d.Module)
	if err != nil {
		return nil, err
	}
	ctor, ok := mod.Classes[d.Class]
	if !ok || ctor == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrSymbolNotFound, d.Module, d.Class)
	}

	instance, err := d.construct(ctor)
	if err != nil {
		return nil, fmt.Errorf("construct %s.%s: %w", d.Module, d.Class, err)
	}

	_, target, ok = bindMethod(instance)
	if !ok {
		return nil, fmt.Errorf("%w on %s.%s (tried %s)", ErrNoMethod, d.Module, d.Class, strings.Join(MethodNames(), ", "))
	}
	return target, nil
}

func (d ClassDescriptor) construct(ctor Constructor) (any, error) {
	if !fileExists(d.ConfigPath) {
		return ctor(nil)
	}
	instance, err := ctor(Kwargs{KwConfigPath: d.ConfigPath})
	if errors.Is(err, ErrSignatureMismatch) {
		return ctor(nil)
	}
	return instance, err
}

// FunctionDescriptor locates a free analysis function inside a module.
// Funcs are probed in order.
type FunctionDescriptor struct {
	Module string
	Funcs  []string
}

func (d FunctionDescriptor) String() string {
	return "func " + d.Module + ".{" + strings.Join(d.Funcs, ",") + "}"
}

func (d FunctionDescriptor) TryResolve(ctx context.Context, reg *Registry) (target Target, err error) {
	defer recoverInto(&err)

	mod, err := reg.Import(d.Module)
	if err != nil {
		return nil, err
	}
	for _, name := range d.Funcs {
		if fn, ok := mod.Funcs[name]; ok && fn != nil {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, d)
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic during resolution: %v", r)
	}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
