// Package fetcher retrieves installable artifacts and verifies their
// SHA-256 digests before handing bytes to the transaction layer.
package fetcher
