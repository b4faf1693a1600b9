package service

import (
	"errors"
	"fmt"
)

// Kind 把失败归类，供 API 层映射状态码。
//
// 注意：“解析完成但什么都没找到”（无跳转/无片源）不是错误，
// 走 domain.Outcome 的 failed 分支；Kind 只覆盖“无法完成”的情形。
type Kind string

const (
	KindInvalidInput Kind = "invalid_input" // 调用方参数不合法（未发起任何抓取）
	KindNotFound     Kind = "not_found"     // 站点返回非 200
	KindTransport    Kind = "transport"     // 网络/超时；不重试，直接终态
	KindInternal     Kind = "internal"      // 解析阶段的意外失败
)

// Error 是流水线阶段的可追溯错误。
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf 从 error 中提取 Kind；若不是 *Error 则返回空串。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func transport(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Msg: msg, Err: err}
}

func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}
