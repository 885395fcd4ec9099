package errors

var (
	ErrUserExists = &DomainError{
		Code:    "CONFLICT",
		Message: "user with this login or email already exists",
	}
	ErrUserNotFound = &DomainError{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid credentials",
	}
)
