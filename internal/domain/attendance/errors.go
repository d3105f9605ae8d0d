package attendance

import "errors"

var (
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrCooldownActive   = errors.New("attendance already recorded recently for this employee")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidSnapshot  = errors.New("snapshot must be a jpg, png, gif or webp image")
)
