package admin

import "errors"

var (
	ErrAdminNotFound    = errors.New("admin not found")
	ErrAdminEmailExists = errors.New("an admin with this email already exists")
	ErrCannotDeleteSelf = errors.New("cannot delete your own admin account")
	ErrNotAdmin         = errors.New("admin privilege required")
)
