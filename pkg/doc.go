// Package pkg provides the core libraries for Boxtree diagram layout.
//
// # Overview
//
// Boxtree automatically lays out hierarchical box diagrams: rectangles
// nested inside rectangles, packed by pluggable algorithms. The pkg
// directory is organized into three main areas:
//
//  1. Engine - the layout algorithms and their shared model
//     (model, layout)
//  2. Pipeline - full-tree relayout, caching, and render sinks
//     (pipeline, render, cache)
//  3. Infrastructure - configuration, persistence, observability
//     (config, store, observability, errors)
//
// Most users interact through the boxtree CLI or the HTTP API rather
// than these packages directly; the pipeline.Runner is the programmatic
// entry point that ties them together.
package pkg
