package response

type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse - единый формат ошибок API. Fields заполняется только для ошибок валидации.
type ErrorResponse struct {
	Status  string              `json:"status"`
	Error   string              `json:"error"`
	Details string              `json:"details,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func MessageResponse(message string) Response {
	return Response{
		Status:  "success",
		Message: message,
	}
}

func ErrorResponseWithDetails(err, details string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   err,
		Details: details,
	}
}

func ValidationErrorResponse(fields map[string][]string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   "validation_failed",
		Details: "One or more fields are invalid",
		Fields:  fields,
	}
}
