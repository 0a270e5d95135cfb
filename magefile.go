//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "ecodash"
	mainPkg = "./cmd/ecodash"
	distDir = "dist"
)

// releaseTargets are the platforms published for --self-upgrade. Asset names
// follow the <cmd>_<os>_<arch> pattern the updater looks for.
var releaseTargets = [][2]string{
	{"linux", "amd64"},
	{"linux", "arm64"},
	{"darwin", "amd64"},
	{"darwin", "arm64"},
}

type Build mg.Namespace

// Local builds ecodash for the current platform
func (Build) Local() error {
	fmt.Printf("Building %s for %s/%s...\n", binary, runtime.GOOS, runtime.GOARCH)
	return sh.Run("go", "build", "-o", binary, mainPkg)
}

// Linux builds a linux/amd64 binary with the Green Tea GC experiment
func (Build) Linux() error {
	env := map[string]string{
		"GOOS":         "linux",
		"GOARCH":       "amd64",
		"GOEXPERIMENT": "greenteagc",
	}
	return sh.RunWith(env, "go", "build", "-o", binary+"-linux-amd64", mainPkg)
}

// Docker builds the static container variant without self-upgrade support
func (Build) Docker() error {
	env := map[string]string{
		"CGO_ENABLED": "0",
		"GOOS":        "linux",
	}
	return sh.RunWith(env, "go", "build", "-tags", "docker", "-o", binary, mainPkg)
}

// Release cross-compiles every release target into dist/
func Release() error {
	mg.Deps(Clean)
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return err
	}
	for _, target := range releaseTargets {
		goos, goarch := target[0], target[1]
		out := filepath.Join(distDir, fmt.Sprintf("%s_%s_%s", binary, goos, goarch))
		fmt.Println("Building", out)
		env := map[string]string{"CGO_ENABLED": "0", "GOOS": goos, "GOARCH": goarch}
		if err := sh.RunWith(env, "go", "build", "-trimpath", "-o", out, mainPkg); err != nil {
			return err
		}
	}
	return nil
}

// Test runs the unit tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Integration runs the PostgreSQL tests; DATABASE_URL must point at a server
func Integration() error {
	env := map[string]string{"ECODASH_INTEGRATION": "1"}
	return sh.RunWithV(env, "go", "test", "-v", "./internal/database/...", "./internal/test/...")
}

// Clean removes build artifacts
func Clean() error {
	for _, path := range []string{binary, binary + "-linux-amd64", distDir} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Update upgrades all Go dependencies
func Update() error {
	if err := sh.Run("go", "get", "-u", "./..."); err != nil {
		return err
	}
	return Tidy()
}

// Fmt runs gofmt on all Go files
func Fmt() error {
	return sh.Run("go", "fmt", "./...")
}

// Vet runs go vet on both build variants
func Vet() error {
	if err := sh.Run("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.Run("go", "vet", "-tags", "docker", "./...")
}

// Tidy tidies go.mod and go.sum
func Tidy() error {
	return sh.Run("go", "mod", "tidy")
}

// CI runs all checks for continuous integration
func CI() {
	mg.SerialDeps(Tidy, Fmt, Vet, Test)
	fmt.Println("All CI checks passed!")
}
