package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulesPrefix = "pomodoro/internal/modules/"

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "modules"), func(file, importPath string) {
		module := moduleName(file)
		layer := detectLayer(file)
		if module == "" || layer == "" || !strings.HasPrefix(importPath, modulesPrefix) {
			return
		}
		if violatesLayerRule(module, layer, importPath) {
			t.Errorf("forbidden import in %s (%s): %s", file, layer, importPath)
		}
	})
}

func TestPlatformDoesNotImportModules(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "platform"), func(file, importPath string) {
		if strings.HasPrefix(importPath, modulesPrefix) || strings.HasPrefix(importPath, "pomodoro/internal/ui") {
			t.Errorf("platform package %s imports %s", file, importPath)
		}
	})
}

// The UI talks to modules only through their published contracts.
func TestUIImportsOnlyContracts(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "ui"), func(file, importPath string) {
		if !strings.HasPrefix(importPath, modulesPrefix) {
			return
		}
		if !isPortIn(importPath) && !isDTO(importPath) {
			t.Errorf("ui package %s imports %s", file, importPath)
		}
	})
}

func walkImports(t *testing.T, root string, visit func(file, importPath string)) {
	t.Helper()
	fset := token.NewFileSet()
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		slash := filepath.ToSlash(path)
		for _, imp := range node.Imports {
			visit(slash, strings.Trim(imp.Path.Value, `"`))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

// hasLayer reports whether importPath points into layer, with or without
// a sub-package below it.
func hasLayer(importPath, layer string) bool {
	return strings.Contains(importPath+"/", "/"+layer+"/")
}

func isPortIn(path string) bool { return hasLayer(path, "port/in") }

func isDTO(path string) bool { return hasLayer(path, "dto") }

func violatesLayerRule(module, layer, importPath string) bool {
	sameModule := strings.HasPrefix(importPath, modulesPrefix+module+"/")
	if !sameModule {
		return !isPortIn(importPath) && !isDTO(importPath)
	}

	switch layer {
	case "adapter/in":
		return !isPortIn(importPath) && !isDTO(importPath)
	case "usecase":
		return hasLayer(importPath, "adapter")
	case "service":
		return hasLayer(importPath, "adapter") || hasLayer(importPath, "usecase")
	case "domain":
		return hasLayer(importPath, "adapter") || hasLayer(importPath, "usecase") || hasLayer(importPath, "service") || hasLayer(importPath, "port")
	default:
		return false
	}
}
