package tmdb

import "fmt"

// Kind identifies why a catalog request failed.
type Kind int

const (
	// KindConfig means the API key was missing; no request was sent.
	KindConfig Kind = iota + 1
	// KindAPI means the catalog answered with a non-2xx status.
	KindAPI
	// KindNetwork means no response was obtained.
	KindNetwork
	// KindDecode means the body could not be decoded as JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAPI:
		return "api"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced by the catalog client.
// Status is set only when Kind is KindAPI.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func configError() *Error {
	return &Error{
		Kind:    KindConfig,
		Message: "TMDB API 키가 설정되지 않았습니다. .env.local 파일에 TMDB_API_KEY를 설정해주세요.",
	}
}

func apiError(status int, statusText string) *Error {
	return &Error{
		Kind:    KindAPI,
		Status:  status,
		Message: fmt.Sprintf("TMDB API 요청 실패: %d %s", status, statusText),
	}
}

func networkError(err error) *Error {
	cause := "알 수 없는 오류"
	if err != nil && err.Error() != "" {
		cause = err.Error()
	}
	return &Error{
		Kind:    KindNetwork,
		Message: "네트워크 오류: " + cause,
		Err:     err,
	}
}

func decodeError(err error) *Error {
	return &Error{
		Kind:    KindDecode,
		Message: fmt.Sprintf("TMDB 응답을 해석할 수 없습니다: %v", err),
		Err:     err,
	}
}
