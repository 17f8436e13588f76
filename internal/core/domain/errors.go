package domain

type ErrorCode string

const (
	CodeUnauthorizedEdit        ErrorCode = "UNAUTHORIZED_PRODUCT_EDIT"
	CodeAtLeastOneImageRequired ErrorCode = "AT_LEAST_ONE_IMAGE_REQUIRED"
	CodeMaxImagesExceeded       ErrorCode = "MAX_5_IMAGES"
	CodeInvalidReplaceTarget    ErrorCode = "INVALID_REPLACE_TARGET"
	CodeInvalidReorderLength    ErrorCode = "INVALID_REORDER_LENGTH"
	CodeInvalidReorderID        ErrorCode = "INVALID_REORDER_ID"
	CodeDuplicateImageID        ErrorCode = "DUPLICATE_IMAGE_ID"
)

// Error is a business rule violation raised by an aggregate.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error carrying the same code, so callers can compare against the
// sentinel values with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrUnauthorizedEdit        = &Error{Code: CodeUnauthorizedEdit, Message: "not allowed to edit this product"}
	ErrAtLeastOneImageRequired = &Error{Code: CodeAtLeastOneImageRequired, Message: "at least one image required"}
	ErrMaxImagesExceeded       = &Error{Code: CodeMaxImagesExceeded, Message: "maximum 5 images allowed"}
	ErrInvalidReplaceTarget    = &Error{Code: CodeInvalidReplaceTarget, Message: "invalid replace target"}
	ErrInvalidReorderLength    = &Error{Code: CodeInvalidReorderLength, Message: "reorder list must reference every image exactly once"}
	ErrInvalidReorderID        = &Error{Code: CodeInvalidReorderID, Message: "reorder list references an unknown or repeated image"}
	ErrDuplicateImageID        = &Error{Code: CodeDuplicateImageID, Message: "image ids must be unique within a product"}
)
