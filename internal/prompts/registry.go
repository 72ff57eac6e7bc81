// Package prompts implements the named prompt-template registry (spec
// §4.7): prompts are loaded once at startup from an external directory,
// reloaded only on an explicit call, and a reference to an unknown prompt
// name is a startup-time fatal error rather than a runtime surprise.
// Mirrors the shape of the teacher's internal/templates.Registry, trimmed
// to this core's much narrower need (no marketplace/git sources, no
// filesystem watcher — reload is explicit per spec).
package prompts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
)

// Registry holds the parsed prompt templates for one process lifetime.
type Registry struct {
	dir string

	mu        sync.RWMutex
	templates map[string]*template.Template
	raw       map[string]string
}

// NewRegistry loads every "*.tmpl" file in dir as a named prompt (the file
// name without extension is the prompt name) and returns an error if dir
// cannot be read or any file fails to parse. Call Require afterward to
// fail fast on missing names the expert/router configuration depends on.
func NewRegistry(dir string) (*Registry, error) {
	r := &Registry{dir: dir}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads every prompt file from disk. This is the only way
// prompts change at runtime — the core never watches the filesystem.
func (r *Registry) Reload() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("prompts: read dir %s: %w", r.dir, err)
	}

	templates := make(map[string]*template.Template, len(entries))
	raw := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		path := filepath.Join(r.dir, entry.Name())
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("prompts: read %s: %w", path, err)
		}
		tmpl, err := template.New(name).Parse(string(body))
		if err != nil {
			return fmt.Errorf("prompts: parse %s: %w", path, err)
		}
		templates[name] = tmpl
		raw[name] = string(body)
	}

	r.mu.Lock()
	r.templates = templates
	r.raw = raw
	r.mu.Unlock()
	return nil
}

// Require asserts every name in names is a known prompt, returning a
// coreerrors.KindConfiguration error naming every missing prompt at once.
// Callers use this once at startup, after constructing experts/router
// configuration, so a typo in a prompt name is never discovered mid-turn.
func (r *Registry) Require(names ...string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []string
	for _, name := range names {
		if _, ok := r.templates[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return coreerrors.New(coreerrors.KindConfiguration, "unknown prompt(s): %s", strings.Join(missing, ", "))
}

// Render executes the named prompt template against data. A request for a
// prompt that does not exist is a configuration error discovered at
// runtime (should not happen if Require was called at startup for every
// name the caller might use).
func (r *Registry) Render(name string, data any) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return "", coreerrors.New(coreerrors.KindConfiguration, "unknown prompt %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", coreerrors.Wrap(coreerrors.KindConfiguration, err, "render prompt %q", name)
	}
	return buf.String(), nil
}

// Raw returns the unparsed template source for name, useful when a caller
// needs the literal text (e.g. a static system prompt with no variables).
func (r *Registry) Raw(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.raw[name]
	return s, ok
}

// Names returns the sorted list of currently loaded prompt names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.templates))
	for name := range r.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
