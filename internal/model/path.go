// Package model defines the data structures for the lint engine.
package model

// Path represents a file system path.
type Path string
