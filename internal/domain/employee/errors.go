package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeNameExists = errors.New("an employee with this name already exists")
	ErrPhotoNotFound      = errors.New("employee has no photo")
	ErrInvalidImage       = errors.New("file is not a supported image (jpg, png, gif, webp)")
	ErrUnsupportedImport  = errors.New("import file must be .xlsx, .xls or .csv")
	ErrEmptyImport        = errors.New("import file contains no employee rows")
	ErrMissingNameColumn  = errors.New("import file has no name column")
)
