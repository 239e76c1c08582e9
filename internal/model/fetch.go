package model

// FetchErrorKind classifies why a title fetch failed.
type FetchErrorKind int

const (
	// NetworkError covers transport failures, non-2xx responses and body read errors.
	NetworkError FetchErrorKind = iota
	// ParseError covers documents that could not be decoded or parsed as HTML.
	ParseError
)

// String returns the wire name of the error kind.
func (k FetchErrorKind) String() string {
	switch k {
	case NetworkError:
		return "network_error"
	case ParseError:
		return "parse_error"
	default:
		return unknownStr
	}
}

// FetchResultKind enumerates the variants of FetchResult.
type FetchResultKind int

const (
	// FetchTitle means the document had a non-empty title.
	FetchTitle FetchResultKind = iota
	// FetchEmpty means the document parsed but had no usable title.
	FetchEmpty
	// FetchFailed means the fetch or parse failed; see FetchResult.Reason.
	FetchFailed
)

// String returns the wire name of the result kind.
func (k FetchResultKind) String() string {
	switch k {
	case FetchTitle:
		return "title"
	case FetchEmpty:
		return "empty"
	case FetchFailed:
		return "failed"
	default:
		return unknownStr
	}
}

// FetchResult is the outcome of one title fetch. It belongs to the fetch
// invocation that produced it and is never cached.
type FetchResult struct {
	kind        FetchResultKind
	title       string
	description string
	reason      FetchErrorKind
}

// TitleResult returns a FetchResult carrying a page title.
// An empty title yields an Empty result instead.
func TitleResult(title string) FetchResult {
	if title == "" {
		return EmptyResult()
	}
	return FetchResult{kind: FetchTitle, title: title}
}

// EmptyResult returns a FetchResult for a document without a title.
func EmptyResult() FetchResult {
	return FetchResult{kind: FetchEmpty}
}

// FailedResult returns a FetchResult for a failed fetch.
func FailedResult(reason FetchErrorKind) FetchResult {
	return FetchResult{kind: FetchFailed, reason: reason}
}

// WithDescription returns a copy of r carrying the page description.
// Failed results never carry one.
func (r FetchResult) WithDescription(description string) FetchResult {
	if r.kind != FetchFailed {
		r.description = description
	}
	return r
}

// Description returns the page's meta description, or "".
func (r FetchResult) Description() string {
	return r.description
}

// Kind returns the result variant.
func (r FetchResult) Kind() FetchResultKind {
	return r.kind
}

// Title returns the page title and true for a FetchTitle result.
func (r FetchResult) Title() (string, bool) {
	return r.title, r.kind == FetchTitle
}

// Reason returns the failure kind and true for a FetchFailed result.
func (r FetchResult) Reason() (FetchErrorKind, bool) {
	return r.reason, r.kind == FetchFailed
}

// DisplayStatusKind enumerates the states of the displayed title slot.
type DisplayStatusKind int

const (
	// DisplayNone means nothing has been scanned yet.
	DisplayNone DisplayStatusKind = iota
	// DisplayPending means a fetch for the displayed URL is in flight.
	DisplayPending
	// DisplayResult means the fetch for the displayed URL has completed.
	DisplayResult
)

// String returns the wire name of the display state.
func (k DisplayStatusKind) String() string {
	switch k {
	case DisplayNone:
		return "none"
	case DisplayPending:
		return "pending"
	case DisplayResult:
		return "result"
	default:
		return unknownStr
	}
}

// DisplayStatus is the value of the displayed title slot:
// None -> Pending -> Result(FetchResult).
type DisplayStatus struct {
	kind   DisplayStatusKind
	result FetchResult
}

// NoStatus returns the initial display status.
func NoStatus() DisplayStatus {
	return DisplayStatus{kind: DisplayNone}
}

// PendingStatus returns the status shown while a fetch is in flight.
func PendingStatus() DisplayStatus {
	return DisplayStatus{kind: DisplayPending}
}

// ResultStatus returns the terminal status for a completed fetch.
func ResultStatus(result FetchResult) DisplayStatus {
	return DisplayStatus{kind: DisplayResult, result: result}
}

// Kind returns the display state.
func (s DisplayStatus) Kind() DisplayStatusKind {
	return s.kind
}

// Result returns the fetch result and true once the status is terminal.
func (s DisplayStatus) Result() (FetchResult, bool) {
	return s.result, s.kind == DisplayResult
}

// IsPending returns true while a fetch is in flight.
func (s DisplayStatus) IsPending() bool {
	return s.kind == DisplayPending
}
