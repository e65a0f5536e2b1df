// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"testing"

	"github.com/toolrun/toolrun/internal/cmdbuild"
	"github.com/toolrun/toolrun/internal/discovery"
	"github.com/toolrun/toolrun/internal/profile"
	"github.com/toolrun/toolrun/internal/runtime"
	"github.com/toolrun/toolrun/internal/shell"
	"github.com/toolrun/toolrun/internal/toolcache"
	"github.com/toolrun/toolrun/internal/valuetype"
	"github.com/toolrun/toolrun/pkg/platform"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

// testdata is shared with the tooldef package tests.
var testdata = filepath.Join("..", "..", "pkg", "tooldef", "testdata")

var convertParams = map[string]any{
	"device":     "pdfwrite",
	"output":     "out file.pdf",
	"resolution": 300,
	"safer":      true,
	"inputs":     []any{"a.ps", "b $HOME.ps", "c'd.ps"},
}

func loadGhostscript(b *testing.B) *tooldef.Tool {
	b.Helper()
	tool, err := tooldef.Load(filepath.Join(testdata, "ghostscript.yaml"))
	if err != nil {
		b.Fatalf("Load failed: %v", err)
	}
	return tool
}

// BenchmarkLoad benchmarks decoding and building a description in each
// supported format. This exercises pkg/cueutil and the YAML/TOML bridges.
func BenchmarkLoad(b *testing.B) {
	for _, ext := range []string{"cue", "yaml", "toml"} {
		path := filepath.Join(testdata, "ghostscript."+ext)
		b.Run(ext, func(b *testing.B) {
			for b.Loop() {
				if _, err := tooldef.Load(path); err != nil {
					b.Fatalf("Load failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkDiscovery benchmarks locating a description, cold and with the
// parsed-description cache warm.
func BenchmarkDiscovery(b *testing.B) {
	b.Run("cold", func(b *testing.B) {
		for b.Loop() {
			d := discovery.New([]string{testdata})
			if _, err := d.Find("ghostscript", ""); err != nil {
				b.Fatalf("Find failed: %v", err)
			}
		}
	})

	b.Run("cached", func(b *testing.B) {
		d := discovery.New([]string{testdata},
			discovery.WithCache(toolcache.New[*tooldef.Tool](toolcache.DefaultCapacity)))
		if _, err := d.Find("ghostscript", ""); err != nil {
			b.Fatalf("Find failed: %v", err)
		}

		b.ResetTimer()
		for b.Loop() {
			if _, err := d.Find("ghostscript", ""); err != nil {
				b.Fatalf("Find failed: %v", err)
			}
		}
	})
}

// BenchmarkProfileSelect benchmarks choosing a profile with a version
// requirement to evaluate.
func BenchmarkProfileSelect(b *testing.B) {
	tool := loadGhostscript(b)
	q := profile.Query{Platform: platform.TypeLinux, Shell: shell.Bash, ToolVersion: "10.02.1"}

	b.ResetTimer()
	for b.Loop() {
		if _, err := profile.Select(tool, q); err != nil {
			b.Fatalf("Select failed: %v", err)
		}
	}
}

// BenchmarkBuild benchmarks validating parameters and assembling the
// argument list and environment of a command.
func BenchmarkBuild(b *testing.B) {
	tool := loadGhostscript(b)
	p, ok := tool.Profile("unix")
	if !ok {
		b.Fatal("profile unix missing")
	}
	c, ok := p.Command("convert")
	if !ok {
		b.Fatal("command convert missing")
	}
	d := shell.MustNew(shell.Bash)

	b.ResetTimer()
	for b.Loop() {
		if _, err := cmdbuild.Build(c, convertParams, p, d, platform.TypeLinux); err != nil {
			b.Fatalf("Build failed: %v", err)
		}
	}
}

// BenchmarkJoin benchmarks quoting a command line in every dialect.
func BenchmarkJoin(b *testing.B) {
	args := []string{"-dBATCH", "-sDEVICE=pdfwrite", "-sOutputFile=out file.pdf", "b $HOME.ps", "c'd.ps", `"quoted"`}
	for _, name := range []shell.Name{shell.Bash, shell.Zsh, shell.Sh, shell.Fish, shell.PowerShell, shell.Cmd, shell.Tcsh} {
		d := shell.MustNew(name)
		b.Run(string(name), func(b *testing.B) {
			for b.Loop() {
				_ = d.Join("gs", args...)
			}
		})
	}
}

// BenchmarkValidate benchmarks type checking of an array parameter.
func BenchmarkValidate(b *testing.B) {
	c := tooldef.Constraints{Type: tooldef.TypeArray, Of: tooldef.TypeInteger}
	raw := []any{"1", "2", "3", "4", "5"}

	for b.Loop() {
		if _, err := valuetype.Validate("pages", c, raw); err != nil {
			b.Fatalf("Validate failed: %v", err)
		}
	}
}

// BenchmarkExecute benchmarks spawning a trivial tool through the executor.
func BenchmarkExecute(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping process benchmark in short mode")
	}
	if goruntime.GOOS == platform.Windows {
		b.Skip("uses a POSIX shell")
	}
	truePath, err := exec.LookPath("true")
	if err != nil {
		b.Skip("true(1) not available")
	}

	x := runtime.NewExecutor(shell.MustNew(shell.Sh), runtime.WithSandbox(platform.SandboxNone))
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		if _, err := x.Execute(ctx, truePath, nil, runtime.ExecOptions{Headless: true}); err != nil {
			b.Fatalf("Execute failed: %v", err)
		}
	}
}
