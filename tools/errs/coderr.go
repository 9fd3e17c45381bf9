package errs

import (
	stderr "errors"
	"fmt"
	"strconv"
	"strings"
)

// CodeError is the wire-friendly error carried across the REST and
// websocket surfaces. Code identifies the class, Msg is stable,
// Detail is per-occurrence context.
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

func (e *CodeError) clone() *CodeError {
	return &CodeError{
		Code:   e.Code,
		Msg:    e.Msg,
		Detail: e.Detail,
	}
}

// WithDetail returns a copy carrying additional detail; the receiver is
// never mutated so the predefined errors stay clean.
func (e *CodeError) WithDetail(detail string) *CodeError {
	ret := e.clone()
	if ret.Detail == "" {
		ret.Detail = detail
	} else {
		ret.Detail += ", " + detail
	}
	return ret
}

// WrapMsg appends a formatted k/v detail and returns the copy as error.
func (e *CodeError) WrapMsg(msg string, kv ...any) error {
	ret := e.clone()
	detail := toString(msg, kv)
	if ret.Detail == "" {
		ret.Detail = detail
	} else {
		ret.Detail += ", " + detail
	}
	return ret
}

// Is matches on Code only, so WithDetail/WrapMsg copies still compare
// equal to their predefined error via errors.Is.
func (e *CodeError) Is(err error) bool {
	var codeErr *CodeError
	if !stderr.As(err, &codeErr) {
		return false
	}
	return e.Code == codeErr.Code
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

func toString(msg string, kv []any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%v=%v", kv[i], kv[i+1]))
	}
	return sb.String()
}
