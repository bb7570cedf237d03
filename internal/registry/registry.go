package registry

import (
	"sitevault/internal/config"
	"sitevault/internal/fsio"
	"sitevault/internal/util"
)

// DefaultNames is the fixed set of site content files the store knows about.
var DefaultNames = []string{
	"projects.html",
	"drawings.html",
	"graphics.html",
	"about.html",
	"index.html",
	"study.html",
	"styles.css",
	"script.js",
	"home_data.json",
	"tabs_config.json",
}

// Target maps a logical file name to its live path on disk.
type Target struct {
	Name     string
	LivePath string
}

// Registry is the fixed name -> live path mapping. It is built once
// from the config and never mutated afterwards.
type Registry struct {
	targets map[string]Target
}

// New builds a Registry from the default name set plus any extra
// targets declared in the config.
func New(cfg *config.Config) *Registry {
	targets := make(map[string]Target, len(DefaultNames)+len(cfg.Targets))
	for _, name := range DefaultNames {
		targets[name] = Target{Name: name, LivePath: cfg.ResolveTargetPath(name)}
	}
	for name := range cfg.Targets {
		targets[name] = Target{Name: name, LivePath: cfg.ResolveTargetPath(name)}
	}
	return &Registry{targets: targets}
}

// Lookup returns the target for a logical name.
func (r *Registry) Lookup(name string) (Target, bool) {
	t, ok := r.targets[name]
	return t, ok
}

// Names returns all known logical names, sorted.
func (r *Registry) Names() []string {
	return util.SortedKeys(r.targets)
}

// Existing returns the targets whose live file currently exists,
// ordered by name.
func (r *Registry) Existing() []Target {
	var out []Target
	for _, name := range r.Names() {
		t := r.targets[name]
		if fsio.Exists(t.LivePath) && !fsio.IsDir(t.LivePath) {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return len(r.targets)
}
