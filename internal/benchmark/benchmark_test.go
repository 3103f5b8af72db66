// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/invowk/spice/internal/discovery"
	"github.com/invowk/spice/internal/testutil"
	"github.com/invowk/spice/pkg/fileworkspace"
	"github.com/invowk/spice/pkg/serialization"
	"github.com/invowk/spice/pkg/traversal"
	"github.com/invowk/spice/pkg/validation"
)

const (
	sampleWorkspace = `name: bench
definitions:
  namespace: com.example.bench
  tools: [jdk]
  variants:
    debug:
      srcs: [src/main/java, src/debug/java]
      tests:
        unit:
          srcs: [src/test/java]
    release:
      srcs: [src/main/java, src/release/java]
`

	// sampleModule is a representative module declaration with tagged deps,
	// extra tests and a non-local dependency.
	sampleModule = `name: payments
namespace: com.example.payments
tools: [protoc]
variants:
  debug:
    srcs: [src/generated/java]
    deps:
      - /libs/core
      - /libs/testing: [test]
      - /libs/proto: [compile, export]
    tests:
      unit:
        deps: [/libs/testing]
      integration:
        srcs: [src/it/java]
        deps:
          - /libs/testing
          - /services/db: [runtime]
  release:
    deps:
      - /libs/core: [compile]
      - /libs/proto
      - maven://com.google.protobuf:protobuf-java
`

	// groups and perGroup size the generated workspace. Each module depends
	// on the previous module of its group and on the first module of the
	// previous group.
	groups   = 10
	perGroup = 20
)

func moduleAddress(group, index int) string {
	return fmt.Sprintf("/group%02d/m%02d", group, index)
}

func generateWorkspace(b *testing.B) string {
	b.Helper()
	files := map[string]string{"workspace.spice.yml": sampleWorkspace}
	for g := range groups {
		for i := range perGroup {
			var deps []string
			if i > 0 {
				deps = append(deps, moduleAddress(g, i-1))
			}
			if g > 0 {
				deps = append(deps, moduleAddress(g-1, 0))
			}
			doc := fmt.Sprintf("name: m%02d\nvariants:\n  debug:\n    deps: [", i)
			for j, d := range deps {
				if j > 0 {
					doc += ", "
				}
				doc += d
			}
			doc += "]\n"
			files[moduleAddress(g, i)[1:]+"/module.spice.yml"] = doc
			files[moduleAddress(g, i)[1:]+"/src/main/java/Main.java"] = ""
		}
	}
	return testutil.TempTree(b, files)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openLoaded(b *testing.B, root string, threads int) *fileworkspace.Workspace {
	b.Helper()
	ws, err := fileworkspace.Open(context.Background(), root,
		fileworkspace.WithThreadCount(threads),
		fileworkspace.WithLogger(quietLogger()),
	)
	if err != nil {
		b.Fatalf("Open: %v", err)
	}
	if err := ws.LoadAll(context.Background()); err != nil {
		b.Fatalf("LoadAll: %v", err)
	}
	return ws
}

// BenchmarkModuleParsing measures schema validation and decoding of one
// module declaration.
func BenchmarkModuleParsing(b *testing.B) {
	data := []byte(sampleModule)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := serialization.UnmarshalModule(data, "module.spice.yml"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWorkspaceParsing measures parsing of the workspace declaration.
func BenchmarkWorkspaceParsing(b *testing.B) {
	data := []byte(sampleWorkspace)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := serialization.UnmarshalWorkspace(data, "workspace.spice.yml"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDiscovery measures the directory walk alone.
func BenchmarkDiscovery(b *testing.B) {
	root := generateWorkspace(b)
	scanner := discovery.New(root)
	b.ResetTimer()
	for b.Loop() {
		count := 0
		_, err := scanner.Walk(context.Background(), nil, func(string) error {
			count++
			return nil
		})
		if err != nil {
			b.Fatal(err)
		}
		if count != groups*perGroup {
			b.Fatalf("found %d modules, want %d", count, groups*perGroup)
		}
	}
}

// BenchmarkFullLoad measures a cold full load at several thread counts.
func BenchmarkFullLoad(b *testing.B) {
	root := generateWorkspace(b)
	for _, threads := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("threads=%d", threads), func(b *testing.B) {
			for b.Loop() {
				openLoaded(b, root, threads)
			}
		})
	}
}

// BenchmarkValidation measures the standard validators on a loaded workspace.
func BenchmarkValidation(b *testing.B) {
	ws := openLoaded(b, generateWorkspace(b), 4)
	b.ResetTimer()
	for b.Loop() {
		if err := ws.Validate(context.Background(), validation.Standard()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTopologicalOrder measures ordering the whole debug slice.
func BenchmarkTopologicalOrder(b *testing.B) {
	ctx := context.Background()
	ws := openLoaded(b, generateWorkspace(b), 4)
	nodes, err := ws.Nodes(ctx)
	if err != nil {
		b.Fatal(err)
	}
	slice, err := ws.Slice("debug")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for b.Loop() {
		if _, err := traversal.TopologicalOrder(ctx, slice, nodes...); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFindNode measures path lookups against a loaded path index.
func BenchmarkFindNode(b *testing.B) {
	ctx := context.Background()
	ws := openLoaded(b, generateWorkspace(b), 4)
	path := moduleAddress(groups-1, perGroup-1) + "/src/main/java/Main.java"
	b.ResetTimer()
	for b.Loop() {
		results, err := ws.FindNode(ctx, path)
		if err != nil {
			b.Fatal(err)
		}
		if len(results) == 0 {
			b.Fatal("no results")
		}
	}
}
