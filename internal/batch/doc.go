// Package batch splits a slice into fixed-size chunks and hands each chunk to a
// callback, either sequentially or with bounded concurrency.
//
// Chunks are contiguous and indexed in input order, so callers that write
// per-chunk results into a slot indexed by chunk number can merge them back in
// input order after a concurrent run. The concurrent aggregator in
// internal/greenops relies on this to keep first-seen group order.
package batch
