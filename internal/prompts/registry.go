package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/site/*.tmpl
var templateFS embed.FS

// registry holds parsed templates and provides thread-safe access.
type registry struct {
	mu        sync.RWMutex
	templates map[PromptID]*template.Template
	sources   map[PromptID]string // stores original template source for GetTemplate
	funcMap   template.FuncMap
}

// globalRegistry is the singleton registry instance.
//
//nolint:gochecknoglobals // singleton pattern for template registry - provides thread-safe global access
var globalRegistry = &registry{
	templates: make(map[PromptID]*template.Template),
	sources:   make(map[PromptID]string),
	funcMap:   defaultFuncMap(),
}

// defaultFuncMap returns the default template functions.
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		// join concatenates strings with a separator
		"join": strings.Join,
		// hasContent checks if a string is non-empty
		"hasContent": func(s string) bool {
			return strings.TrimSpace(s) != ""
		},
		// formatAttachment formats an AttachmentRef for display
		"formatAttachment": func(a AttachmentRef) string {
			if a.Inline {
				media := a.MediaType
				if media == "" {
					media = "unknown type"
				}
				return fmt.Sprintf("- %s (%s, content embedded as a data URI): %s", a.Name, media, a.URL)
			}
			return fmt.Sprintf("- %s (hosted file, reference it by URL): %s", a.Name, a.URL)
		},
	}
}

// init loads all templates at startup.
//
//nolint:gochecknoinits // required to preload embedded templates at package initialization
func init() {
	if err := globalRegistry.loadAll(); err != nil {
		// Templates are embedded, so this should never fail
		// If it does, it's a compile-time bug we want to know about
		panic(fmt.Sprintf("failed to load embedded templates: %v", err))
	}
}

// loadAll loads all templates from the embedded filesystem.
func (r *registry) loadAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}

		content, err := templateFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}

		// Derive prompt ID from path: templates/site/create.tmpl -> site/create
		promptID := r.pathToPromptID(path)

		tmpl, err := template.New(string(promptID)).Funcs(r.funcMap).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", path, err)
		}

		r.templates[promptID] = tmpl
		r.sources[promptID] = string(content)
		return nil
	})
}

// pathToPromptID converts a file path to a PromptID.
// templates/site/create.tmpl -> site/create
func (r *registry) pathToPromptID(path string) PromptID {
	id := strings.TrimPrefix(path, "templates/")
	id = strings.TrimSuffix(id, ".tmpl")
	return PromptID(id)
}

// get retrieves a template by ID.
func (r *registry) get(id PromptID) (*template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return tmpl, nil
}

// getSource retrieves the raw template source by ID.
func (r *registry) getSource(id PromptID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return source, nil
}

// list returns all registered prompt IDs.
func (r *registry) list() []PromptID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]PromptID, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	return ids
}
