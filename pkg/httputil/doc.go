// Package httputil fetches source documents over HTTP.
//
// # Overview
//
// Commands accept an http:// or https:// URL wherever they accept a source
// file. This package provides the pieces behind that:
//
//   - [Fetcher]: GET with retries, a size limit and an optional body cache
//   - [Cache]: File-based cache of response bodies keyed by URL
//   - [Retry]: Retry with exponential backoff for transient failures
//
// # Caching
//
// [Cache] stores raw bodies under ~/.cache/treemap/http/ with a TTL based on
// file modification time. Bodies are cached before decoding, so the pipeline
// cache still decides whether the aggregated tree and layout are reused.
//
//	c, err := httputil.NewCache("", time.Hour)
//	f := httputil.NewFetcher(c)
//	data, err := f.Fetch(ctx, "https://example.com/disk.xml", false)
//
// # Retry
//
// Network errors, 429 and 5xx responses are retried three times with a
// doubling delay. Other 4xx responses fail immediately; 404 maps to
// FILE_NOT_FOUND like a missing local file.
package httputil
