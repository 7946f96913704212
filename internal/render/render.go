// Package render turns a Message into Go source text using a template file
// that is read and parsed once per process.
package render

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"sync"
	"text/template"
)

// CacheKey is the name the message template is cached under.
const CacheKey = "message"

// Message is the record a template is rendered against.
type Message struct {
	ID      string
	Message string
}

// TemplateError reports a failure to read, parse or execute a template.
type TemplateError struct {
	Op   string // "read", "parse" or "execute"
	Path string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

var funcs = template.FuncMap{
	"quote": strconv.Quote,
}

// Cache holds parsed templates by name.
type Cache struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{templates: make(map[string]*template.Template)}
}

var processCache = NewCache()

// Compile parses text and stores it under name, replacing any previous entry.
func (c *Cache) Compile(name, text string) error {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[name] = t
	return nil
}

// Run executes the template stored under name against data.
func (c *Cache) Run(name string, data any) (string, error) {
	c.mu.RLock()
	t, ok := c.templates[name]
	c.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no template cached under %q", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Renderer renders Messages with the template loaded at construction.
type Renderer struct {
	path  string
	key   string
	cache *Cache
}

// New reads the template at path and caches it process-wide under CacheKey.
func New(path string) (*Renderer, error) {
	return newRenderer(path, CacheKey, processCache)
}

func newRenderer(path, key string, cache *Cache) (*Renderer, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateError{Op: "read", Path: path, Err: err}
	}
	if err := cache.Compile(key, string(text)); err != nil {
		return nil, &TemplateError{Op: "parse", Path: path, Err: err}
	}
	return &Renderer{path: path, key: key, cache: cache}, nil
}

// Render substitutes msg into the template and returns the source text.
func (r *Renderer) Render(msg Message) (string, error) {
	src, err := r.cache.Run(r.key, msg)
	if err != nil {
		return "", &TemplateError{Op: "execute", Path: r.path, Err: err}
	}
	return src, nil
}
