// Package store holds a registry of object-store constructors
// and functions that operate across stores.
package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/bobg/lit"
)

// Factory creates a Store from a configuration map.
type Factory func(context.Context, map[string]interface{}) (lit.Store, error)

var registry = make(map[string]Factory)

// Register makes a Factory available under a type name.
// Store packages call it from init.
func Register(key string, f Factory) {
	registry[key] = f
}

// Create creates a Store with the Factory registered under key.
func Create(ctx context.Context, key string, conf map[string]interface{}) (lit.Store, error) {
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("key %s not found in registry", key)
	}
	return f(ctx, conf)
}

// Nested creates the store described by conf["nested"],
// which must itself be a map with a "type" key.
// Wrapping stores (lru, logging) use it in their factories.
func Nested(ctx context.Context, conf map[string]interface{}) (lit.Store, error) {
	nested, ok := conf["nested"].(map[string]interface{})
	if !ok {
		return nil, errors.New(`missing "nested" parameter`)
	}
	nestedType, ok := nested["type"].(string)
	if !ok {
		return nil, errors.New(`"nested" parameter missing "type"`)
	}
	s, err := Create(ctx, nestedType, nested)
	return s, errors.Wrap(err, "creating nested store")
}
