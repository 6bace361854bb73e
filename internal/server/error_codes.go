package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument   = 1000
	ErrCodeInvalidQuery      = 1003
	ErrCodeInvalidID         = 1004
	ErrCodeMissingRequired   = 1009
	ErrCodeInvalidTimeFilter = 1010
	ErrCodeInvalidOrdering   = 1011
	ErrCodeInvalidPage       = 1012
	ErrCodeInvalidMediaType  = 1013
	ErrCodeRequestTooLarge   = 1002

	// Domain state (2xxx)
	ErrCodeFileNotFound      = 2001
	ErrCodeBlobNotFound      = 2002
	ErrCodeLengthMismatch    = 2101
	ErrCodeIntegrityMismatch = 2102

	// Auth & limits (3xxx)
	ErrCodeUnauthorized      = 3001
	ErrCodeForbidden         = 3002
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
	ErrCodeStorageWrite = 4003
	ErrCodeStorageRead  = 4004
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 403:
		return ErrCodeForbidden
	case 404:
		return ErrCodeFileNotFound
	case 413:
		return ErrCodeRequestTooLarge
	case 422:
		return ErrCodeIntegrityMismatch
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
