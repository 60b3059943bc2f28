// Package utils provides loose-typed coercion helpers for values decoded
// from heterogeneous JSON rows.
package utils
