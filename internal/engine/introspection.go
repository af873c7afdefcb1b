package engine

import (
	"strconv"

	"github.com/aretw0/introspection"

	"casestudy-mapper/internal/cache"
)

// State exposes internal state for observability.
type State struct {
	Running         bool        `json:"running"`
	Transformations int         `json:"transformations"`
	Generation      uint64      `json:"registry_generation"`
	DefinitionFiles []string    `json:"definition_files,omitempty"`
	Watching        bool        `json:"watching"`
	StoreDriver     string      `json:"store_driver"`
	Caches          CacheStats  `json:"caches"`
	Components      []Component `json:"components"`
}

// Component names one wired part of the engine.
type Component struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	e.mu.Lock()
	running := e.running
	e.mu.Unlock()

	s := State{
		Running:         running,
		Transformations: e.registry.Len(),
		Generation:      e.registry.Generation(),
		Watching:        running && e.loader != nil && e.cfg.Definitions.Watch,
		StoreDriver:     e.cfg.Store.Driver,
		Caches:          e.CacheStats(),
	}

	if e.loader != nil {
		s.DefinitionFiles = e.loader.Files()
	}

	s.Components = []Component{
		{Name: e.compatCache.Name(), Type: e.compatCache.ComponentType()},
		{Name: e.transformCache.Name(), Type: e.transformCache.ComponentType()},
	}

	return s
}

// Node is one box of the engine's component tree. The field names are the
// ones introspection.TreeDiagram reads.
type Node struct {
	Name     string            `json:"name"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

// Tree returns the engine and its parts as a component tree.
func (e *Engine) Tree() Node {
	st := e.State().(State)

	status := "stopped"
	if st.Running {
		status = "running"
	}

	registry := Node{
		Name:   "registry",
		Status: status,
		Metadata: map[string]string{
			"type":            "process",
			"transformations": strconv.Itoa(st.Transformations),
			"generation":      strconv.FormatUint(st.Generation, 10),
		},
	}

	if e.loader != nil {
		watcher := "suspended"
		if st.Watching {
			watcher = "running"
		} else if !st.Running {
			watcher = "stopped"
		}

		registry.Children = append(registry.Children, Node{
			Name:     "definitions",
			Status:   watcher,
			Metadata: map[string]string{"type": "goroutine", "files": strconv.Itoa(len(st.DefinitionFiles))},
		})
	}

	return Node{
		Name:     "engine",
		Status:   status,
		Metadata: map[string]string{"type": "manager", "store": st.StoreDriver},
		Children: []Node{
			registry,
			cacheNode(st.Caches.Compatibility, status),
			cacheNode(st.Caches.Transform, status),
		},
	}
}

func cacheNode(s cache.Stats, status string) Node {
	return Node{
		Name:   s.Name,
		Status: status,
		Metadata: map[string]string{
			"type":  "container",
			"size":  strconv.Itoa(s.Size),
			"hits":  strconv.FormatUint(s.Hits, 10),
			"image": strconv.Itoa(s.Size) + "/" + strconv.Itoa(s.MaxSize) + " entries",
		},
	}
}

// Diagram renders Tree as a Mermaid flowchart.
func (e *Engine) Diagram() string {
	cfg := introspection.DefaultDiagramConfig()
	cfg.SecondaryID = "engine"

	return introspection.TreeDiagram(e.Tree(), cfg)
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
