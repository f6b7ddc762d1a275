package errors

import "errors"

var (
	ErrNotFound = errors.New("account not found")

	ErrDuplicateUserName = errors.New("user name already exists")

	ErrCredentialNotFound = errors.New("credential not found")
)
