// Package store provides persistence for diagrams.
//
// This package defines a Store interface with implementations for
// different backends:
//   - memory: in-memory storage for development/testing
//   - file: directory of JSON files for CLI/standalone usage
//   - mongo: MongoDB-backed storage for server deployments
//
// Diagrams are stored by ID; the server assigns a fresh ID on create.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// ErrNotFound is returned when a diagram does not exist.
var ErrNotFound = errors.New("diagram not found")

// Entry pairs a stored diagram with its storage metadata.
type Entry struct {
	Diagram   model.Diagram `json:"diagram" bson:"diagram"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// Info summarizes a stored diagram for listings.
type Info struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name,omitempty" bson:"name,omitempty"`
	Rectangles int       `json:"rectangles" bson:"rectangles"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Get retrieves a diagram by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (model.Diagram, error)

	// Put stores a diagram under its ID, replacing any existing one.
	Put(ctx context.Context, d model.Diagram) error

	// Delete removes a diagram. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all stored diagrams.
	List(ctx context.Context) ([]Info, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
