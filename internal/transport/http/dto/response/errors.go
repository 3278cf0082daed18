package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  "error",
		Error:   "authentication_failed",
		Details: "Invalid username or password",
	}

	ErrInvalidRefreshToken = ErrorResponse{
		Status:  "error",
		Error:   "invalid_refresh_token",
		Details: "Refresh token is invalid or expired",
	}

	ErrUnauthorized = ErrorResponse{
		Status:  "error",
		Error:   "unauthorized",
		Details: "Authentication required",
	}

	ErrForbidden = ErrorResponse{
		Status:  "error",
		Error:   "forbidden",
		Details: "Insufficient permissions",
	}

	ErrNotFound = ErrorResponse{
		Status: "error",
		Error:  "not_found",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Status:  "error",
		Error:   "user_already_exists",
		Details: "User with this username or email already exists",
	}

	ErrTagAlreadyExists = ErrorResponse{
		Status:  "error",
		Error:   "tag_already_exists",
		Details: "Tag with this name or slug already exists",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}

	ErrBadGateway = ErrorResponse{
		Status:  "error",
		Error:   "bad_gateway",
		Details: "Upstream service unavailable",
	}
)
