package session

// MatchResult describes how a wait ended. For textual matches Start and End
// are byte offsets into the buffered span since the previous consume point;
// for synthesized matches (EOF, Timeout, FullBuffer) Matched is empty and
// Start equals End.
type MatchResult struct {
	// PatternIndex is the index into the patterns passed to the expect
	// call, identifying which pattern won.
	PatternIndex int

	// Matched is the text the pattern matched.
	Matched string

	// Start and End are the matched byte range [Start, End).
	Start int
	End   int

	// Before is everything received since the previous consume point up
	// to the start of the match. For a command/prompt round trip this is
	// typically the command's output.
	Before string

	// Captures holds the regexp capture groups: index 0 is the full
	// match, subsequent entries the groups. Empty for other patterns.
	Captures []string
}
