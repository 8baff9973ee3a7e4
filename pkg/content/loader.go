package content

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/apiguide/pkg/debug"
)

//go:embed data/*.yaml
var embedded embed.FS

// Library is the content table keyed by guide id.
type Library struct {
	guides []Guide
	byID   map[string]int
}

// NewLibrary validates guides and orders them for display.
func NewLibrary(guides ...Guide) (*Library, error) {
	lib := &Library{byID: make(map[string]int, len(guides))}
	sorted := append([]Guide(nil), guides...)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, oj := sorted[i].Order, sorted[j].Order
		if (oi == 0) != (oj == 0) {
			return oj == 0
		}
		if oi != oj {
			return oi < oj
		}
		return sorted[i].ID < sorted[j].ID
	})
	for i, g := range sorted {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if _, dup := lib.byID[g.ID]; dup {
			return nil, &ValidationError{Guide: g.ID, Field: "id", Reason: "duplicate guide id"}
		}
		lib.byID[g.ID] = i
	}
	lib.guides = sorted
	return lib, nil
}

// Guide returns the guide with the given id.
func (l *Library) Guide(id string) (Guide, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Guide{}, false
	}
	return l.guides[i], true
}

// Guides returns all guides in display order.
func (l *Library) Guides() []Guide {
	return append([]Guide(nil), l.guides...)
}

// IDs returns the guide ids in display order.
func (l *Library) IDs() []string {
	ids := make([]string, len(l.guides))
	for i, g := range l.guides {
		ids[i] = g.ID
	}
	return ids
}

// Len returns the number of guides.
func (l *Library) Len() int {
	return len(l.guides)
}

// Parse decodes and validates one YAML guide document. Unknown fields are
// rejected so typos in content files surface early.
func Parse(data []byte) (Guide, error) {
	var g Guide
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return Guide{}, fmt.Errorf("decode guide: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Guide{}, err
	}
	return g, nil
}

// LoadEmbedded loads the guides compiled into the binary.
func LoadEmbedded() (*Library, error) {
	return loadFS(context.Background(), embedded, "data")
}

// LoadDir loads every *.yaml / *.yml file in dir.
func LoadDir(ctx context.Context, dir string) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s: not a directory", dir)
	}
	return loadFS(ctx, os.DirFS(dir), ".")
}

// loadFS parses guide files concurrently; the first failure cancels the rest.
func loadFS(ctx context.Context, fsys fs.FS, root string) (*Library, error) {
	start := time.Now()
	defer func() { debug.LogTiming("content load", time.Since(start)) }()

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no guide files found", ErrInvalidContent)
	}

	guides := make([]Guide, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, pathJoin(root, name))
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			guide, err := Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			guides[i] = guide
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	debug.Log("content: loaded %d guides", len(guides))
	return NewLibrary(guides...)
}

// pathJoin joins fs.FS paths, which always use forward slashes.
func pathJoin(root, name string) string {
	if root == "." || root == "" {
		return name
	}
	return root + "/" + name
}
