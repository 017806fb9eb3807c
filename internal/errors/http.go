package errors

import "net/http"

// internalMessage is the only text a caller sees for a server-side failure.
const internalMessage = "internal server error"

// Response is the JSON body written for a failed request.
type Response struct {
	Code    Code                `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// ToResponse converts err into a status and body safe to return to a caller.
// Server-side failures are flattened to a generic INTERNAL response.
// Validation failures keep their message and fields.
func ToResponse(err error) (int, Response) {
	code := GetCode(err)
	status := code.HTTPStatus()
	if !code.Detailed() {
		return http.StatusInternalServerError, Response{
			Code:    CodeInternal,
			Message: internalMessage,
		}
	}

	return status, Response{
		Code:    code,
		Message: GetMessage(err),
		Fields:  GetFieldErrors(err),
	}
}

// FromResponse rebuilds an error from a failed response.
// An empty body falls back to the status code.
func FromResponse(status int, body Response) *Error {
	code := body.Code
	if code == "" {
		code = CodeFromHTTPStatus(status)
	}
	message := body.Message
	if message == "" {
		message = http.StatusText(status)
	}

	err := New(code, message)
	if len(body.Fields) > 0 {
		err.WithMeta(metaValidationErrors, body.Fields)
	}
	return err
}
