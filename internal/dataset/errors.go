package dataset

import "errors"

// Kind：加载失败分类，对外以字符串暴露
type Kind string

const (
	KindLocalMissing  Kind = "local_missing"
	KindLocalParse    Kind = "local_parse"
	KindBoundaryFetch Kind = "boundary_fetch"
	KindBoundaryParse Kind = "boundary_parse"
	KindEmptyJoin     Kind = "empty_join"
)

var (
	ErrLocalMissing  = errors.New("local data file missing")
	ErrLocalParse    = errors.New("local data file unreadable")
	ErrBoundaryFetch = errors.New("boundary fetch failed")
	ErrBoundaryParse = errors.New("boundary parse failed")
	ErrEmptyJoin     = errors.New("no region matched between statistics and boundaries")
)

var sentinels = map[Kind]error{
	KindLocalMissing:  ErrLocalMissing,
	KindLocalParse:    ErrLocalParse,
	KindBoundaryFetch: ErrBoundaryFetch,
	KindBoundaryParse: ErrBoundaryParse,
	KindEmptyJoin:     ErrEmptyJoin,
}

var messages = map[Kind]string{
	KindLocalMissing:  "The statistics file could not be found, so there is nothing to map.",
	KindLocalParse:    "The statistics file could not be read. Check its columns and values.",
	KindBoundaryFetch: "County boundaries could not be downloaded. Try again later.",
	KindBoundaryParse: "County boundaries were downloaded but are not valid GeoJSON.",
	KindEmptyJoin:     "No county in the statistics file matched a county boundary.",
}

// LoadError：带分类的加载错误，errors.Is 可同时匹配分类哨兵与底层原因
type LoadError struct {
	Kind Kind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() []error {
	out := []error{sentinels[e.Kind]}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func newLoadError(k Kind, err error) *LoadError { return &LoadError{Kind: k, Err: err} }

// KindOf：提取错误分类，非 LoadError 时返回空
func KindOf(err error) Kind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	for k, s := range sentinels {
		if errors.Is(err, s) {
			return k
		}
	}
	return ""
}

// Message：面向用户的分类提示文本
func Message(k Kind) string {
	if m, ok := messages[k]; ok {
		return m
	}
	return "The map data is unavailable."
}
