// Package database manages the optional relational store used by the scores
// feature. SQLite is the default driver; MySQL is supported for deployments
// that already run one. The connection is optional at startup: when it fails,
// the server runs without score persistence.
package database
