package gosource

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"go-cyclefinder/internal/model"
)

// LoadMode is the package loading mode needed to collect declarations.
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes

// DetectModulePath reads the go.mod file in dir and returns the module path.
func DetectModulePath(dir string) (string, error) {
	gomod := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", errors.Wrap(err, "cannot read go.mod")
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", errors.Errorf("module directive not found in '%s'", gomod)
	}
	return path, nil
}

// Load loads the packages matching patterns relative to dir. Package errors
// are logged and loading continues with what type-checked.
func Load(ctx context.Context, dir string, patterns ...string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	var n int
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, perr := range pkg.Errors {
			n++
			grip.Debug(message.Fields{
				"message": "package error",
				"package": pkg.PkgPath,
				"error":   perr.Error(),
			})
		}
	})
	grip.WarningWhen(n > 0, message.Fields{
		"message": "package errors, continuing anyway",
		"errors":  n,
	})

	return pkgs, nil
}

// Options configures Declarations.
type Options struct {
	Patterns   []string
	Implements bool
}

// Declarations loads the module rooted at dir and returns the declarations
// of its named types.
func Declarations(ctx context.Context, dir string, opts Options) ([]model.TypeDecl, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	modulePath, err := DetectModulePath(absDir)
	if err != nil {
		return nil, errors.Wrap(err, "cannot detect Go module")
	}
	grip.Info(message.Fields{
		"message": "loading packages",
		"module":  modulePath,
		"dir":     absDir,
	})

	pkgs, err := Load(ctx, absDir, opts.Patterns...)
	if err != nil {
		return nil, err
	}

	c := NewCollector(modulePath)
	c.Implements = opts.Implements
	c.CollectTypes(pkgs)

	grip.Info(message.Fields{
		"message":  "collected declarations",
		"packages": len(pkgs),
		"types":    len(c.Decls),
	})

	return c.Decls, nil
}
