package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// RepoKeyLength is the length of a hex-encoded repository key.
const RepoKeyLength = sha256.Size * 2

// HeaderPlaceholder is written for each header line of a newly created cache.
const HeaderPlaceholder = "# repostat cache header. Lines in this block are preserved across rewrites."

// RepoKey returns the stable cache key for a qualified repository name.
func RepoKey(qualifiedName string) string {
	sum := sha256.Sum256([]byte(qualifiedName))
	return hex.EncodeToString(sum[:])
}

// CacheRecord is the persisted statistics for one repository.
type CacheRecord struct {
	// Key is RepoKey of the repository's qualified name.
	Key string

	// CommitCount is the default-branch commit count seen at last update.
	CommitCount int64

	// AuthoredCommits counts commits attributed to the tracked identity.
	AuthoredCommits int64

	// Additions and Deletions are cumulative line changes by the tracked identity.
	Additions int64
	Deletions int64
}

// NewCacheRecord returns a zero-valued record keyed to qualifiedName.
func NewCacheRecord(qualifiedName string) CacheRecord {
	return CacheRecord{Key: RepoKey(qualifiedName)}
}

// IsStale reports whether the record no longer reflects repo.
// A record is stale when it is keyed to a different repository or
// when the observed commit count has moved.
func (r CacheRecord) IsStale(repo RepositoryRef) bool {
	return r.Key != RepoKey(repo.QualifiedName) || r.CommitCount != repo.CommitCount
}

// Validate checks the non-negativity invariants.
func (r CacheRecord) Validate() error {
	if len(r.Key) != RepoKeyLength {
		return fmt.Errorf("%w: key length %d", ErrCacheCorrupt, len(r.Key))
	}
	if _, err := hex.DecodeString(r.Key); err != nil {
		return fmt.Errorf("%w: key is not hex", ErrCacheCorrupt)
	}
	if r.CommitCount < 0 || r.AuthoredCommits < 0 || r.Additions < 0 || r.Deletions < 0 {
		return fmt.Errorf("%w: negative counter", ErrCacheCorrupt)
	}
	return nil
}

// FormatRecord renders a record as a cache line without a trailing newline.
func FormatRecord(r CacheRecord) string {
	return fmt.Sprintf("%s %d %d %d %d", r.Key, r.CommitCount, r.AuthoredCommits, r.Additions, r.Deletions)
}

// ParseRecord parses a cache line produced by FormatRecord.
// Any deviation from "hash count count count count" yields ErrCacheCorrupt.
func ParseRecord(line string) (CacheRecord, error) {
	fields := strings.Split(strings.TrimRight(line, "\r"), " ")
	if len(fields) != 5 {
		return CacheRecord{}, fmt.Errorf("%w: expected 5 fields, got %d", ErrCacheCorrupt, len(fields))
	}

	var nums [4]int64
	for i, f := range fields[1:] {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return CacheRecord{}, fmt.Errorf("%w: field %d: %w", ErrCacheCorrupt, i+2, err)
		}
		nums[i] = n
	}

	r := CacheRecord{
		Key:             strings.ToLower(fields[0]),
		CommitCount:     nums[0],
		AuthoredCommits: nums[1],
		Additions:       nums[2],
		Deletions:       nums[3],
	}
	if err := r.Validate(); err != nil {
		return CacheRecord{}, err
	}
	return r, nil
}

// CacheFile is the full persisted cache: an opaque header block followed by
// one record per tracked repository, aligned with the listing order.
type CacheFile struct {
	Header  []string
	Records []CacheRecord
}

// NewCacheFile returns an empty cache with headerSize placeholder lines.
func NewCacheFile(headerSize int) *CacheFile {
	header := make([]string, max(headerSize, 0))
	for i := range header {
		header[i] = HeaderPlaceholder
	}
	return &CacheFile{Header: header}
}

// Reseed discards all records and creates one zero record per repository,
// keeping the header untouched.
func (f *CacheFile) Reseed(listing []RepositoryRef) {
	f.Records = make([]CacheRecord, len(listing))
	for i, repo := range listing {
		f.Records[i] = NewCacheRecord(repo.QualifiedName)
	}
}

// Totals sums additions and deletions over all records.
func (f *CacheFile) Totals() (additions, deletions int64) {
	for _, r := range f.Records {
		additions += r.Additions
		deletions += r.Deletions
	}
	return additions, deletions
}

// Clone returns a deep copy of the cache file.
func (f *CacheFile) Clone() *CacheFile {
	return &CacheFile{
		Header:  append([]string(nil), f.Header...),
		Records: append([]CacheRecord(nil), f.Records...),
	}
}

// UpdateMode selects how stale records are refreshed.
type UpdateMode string

// Available update modes.
const (
	// UpdateModeFast overwrites a stale record with the new commit count and
	// zeroed counters without walking history.
	UpdateModeFast UpdateMode = "fast"

	// UpdateModeExact walks the commit history of every stale repository.
	UpdateModeExact UpdateMode = "exact"
)

// IsValid returns true if the mode is recognised.
func (m UpdateMode) IsValid() bool {
	return m == UpdateModeFast || m == UpdateModeExact
}

// String returns the string representation.
func (m UpdateMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m UpdateMode) Description() string {
	switch m {
	case UpdateModeFast:
		return "Fast (reset counters on change)"
	case UpdateModeExact:
		return "Exact (walk commit history on change)"
	default:
		return "Unknown"
	}
}

// AggregateResult is the line-count summary surfaced to callers.
type AggregateResult struct {
	TotalAdditions int64
	TotalDeletions int64
	NetLines       int64

	// FromFullCache is true when no record needed refreshing.
	FromFullCache bool
}

// NewAggregateResult sums a cache file into an AggregateResult.
func NewAggregateResult(f *CacheFile, fromFullCache bool) AggregateResult {
	add, del := f.Totals()
	return AggregateResult{
		TotalAdditions: add,
		TotalDeletions: del,
		NetLines:       add - del,
		FromFullCache:  fromFullCache,
	}
}
