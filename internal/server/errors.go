package server

// The wire response folds every resolution-class failure into the same
// 404 so a probe cannot tell a traversal attempt from a missing file or
// a disallowed extension. The cases stay distinct internally for logs
// and tests.
type notFoundKind int

const (
	kindTraversal notFoundKind = iota
	kindMissing
	kindExtension
	kindContentType
)

func (k notFoundKind) String() string {
	switch k {
	case kindTraversal:
		return "traversal"
	case kindMissing:
		return "missing"
	case kindExtension:
		return "extension"
	case kindContentType:
		return "content-type"
	default:
		return "unknown"
	}
}
