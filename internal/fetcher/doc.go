// Package fetcher downloads a single artifact over HTTP into a directory,
// naming the file after the final (post-redirect) URL.
package fetcher
