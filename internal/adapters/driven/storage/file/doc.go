// Package file implements driven.CacheStore as a line-oriented text file.
//
// The layout is a block of opaque header lines followed by one record per
// tracked repository:
//
//	<header line 1>
//	...
//	<sha256-hex> <commitCount> <authoredCommits> <additions> <deletions>
//
// Saves write a temporary file in the same directory and rename it over
// the cache, so readers never observe a partial rewrite.
package file
