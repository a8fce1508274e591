package httpapi

// Result response envelope shared by every JSON endpoint.
// - code: 2000 success, -1 error
// - type: 'success' | 'error'
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// FailFields validation failure: the field map plus the submitted model so the
// client can re-render the form.
func FailFields(message string, fields map[string]string, model any) Result[any] {
	return Result[any]{
		Code:    ResultError,
		Type:    "error",
		Message: message,
		Result: map[string]any{
			"fields": fields,
			"model":  model,
		},
	}
}
