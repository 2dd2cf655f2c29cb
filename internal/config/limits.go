package config

const (
	// MaxNoteContentBytes is the hard ceiling on note content size.
	// Content beyond this fails with ContentTooLarge.
	MaxNoteContentBytes = 10 << 20 // 10 MiB

	// MaxNoteTitleLength fits PostgreSQL VARCHAR(255).
	MaxNoteTitleLength = 255

	// MaxFolderPathLength bounds the four-segment folder coordinate.
	MaxFolderPathLength = 500

	// MaxReasonLength bounds deletion request and rejection reasons.
	MaxReasonLength = 1000

	// MaxChangeSummaryLength bounds version change summaries.
	MaxChangeSummaryLength = 500

	// DefaultReadRequestsPerMinute is the sliding-window limit for read
	// operations per user.
	DefaultReadRequestsPerMinute = 30

	// DefaultWriteRequestsPerMinute is the stricter limit for mutating
	// operations per user.
	DefaultWriteRequestsPerMinute = 10

	// DefaultPageSize and MaxPageSize bound list queries.
	DefaultPageSize = 20
	MaxPageSize     = 100
)
