// Package validation is the request-validation collaborator: write payloads
// are checked against embedded JSON Schemas before they reach a service.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator validates payloads against named JSON Schemas compiled via
// santhosh-tekuri/jsonschema. Compilation is lazy and cached.
type Validator struct {
	sources map[string]string

	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator builds a validator over a set of named schema documents.
func NewValidator(sources map[string]string) *Validator {
	if len(sources) == 0 {
		panic("validator requires schema sources")
	}
	return &Validator{
		sources: sources,
		cache:   make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the payload matches the named schema. A non-nil error
// carries the human-readable validation detail.
func (v *Validator) Validate(name string, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("request body is required")
	}

	compiled, err := v.getOrCompile(name)
	if err != nil {
		return err
	}

	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	if err := compiled.Validate(document); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	return nil
}

func (v *Validator) getOrCompile(name string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	compiled, ok := v.cache[name]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// another goroutine may have populated the cache while we were waiting
	if compiled, ok = v.cache[name]; ok {
		return compiled, nil
	}

	source, ok := v.sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name+".json", bytes.NewReader([]byte(source))); err != nil {
		return nil, fmt.Errorf("register schema %s: %w", name, err)
	}

	newCompiled, err := compiler.Compile(name + ".json")
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	v.cache[name] = newCompiled
	return newCompiled, nil
}
