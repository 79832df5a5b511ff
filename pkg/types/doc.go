// Package types defines the entity structs, table name constants, and
// standard errors shared by the finkeep storage and facade layers.
package types
