// Package storage wraps the S3-compatible object store that holds the
// self-hosted curated photograph collection.
//
// The Client interface is intentionally narrow: the curated source only needs
// to list the bucket, and the curate CLI command only needs to upload into it.
// Cards never expose the storage endpoint; images are linked through the
// configured public base URL.
package storage
