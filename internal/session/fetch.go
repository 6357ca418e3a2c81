package session

// FetchStatus describes how a FetchUser call ended
type FetchStatus int

const (
	// FetchSkipped means there was no token, so no request was made
	FetchSkipped FetchStatus = iota
	// FetchUpdated means the profile was replaced with the server's
	FetchUpdated
	// FetchStale means the request failed and the previous profile was kept
	FetchStale
	// FetchDiscarded means the response arrived after the session changed
	FetchDiscarded
)

func (s FetchStatus) String() string {
	switch s {
	case FetchSkipped:
		return "skipped"
	case FetchUpdated:
		return "updated"
	case FetchStale:
		return "stale"
	case FetchDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// FetchResult is returned by FetchUser. Err is set only for FetchStale.
type FetchResult struct {
	Status FetchStatus
	User   *User
	Err    error
}

// Stale reports whether the profile could not be refreshed
func (r FetchResult) Stale() bool {
	return r.Status == FetchStale
}
