package blobstore

import "errors"

var (
	// ErrNotFound reports an unknown fingerprint on Open or Delete.
	ErrNotFound = errors.New("blob not found")
	// ErrLengthMismatch reports a declared size that does not match the
	// bytes actually streamed.
	ErrLengthMismatch = errors.New("declared length does not match bytes read")
	// ErrIntegrityMismatch reports a recomputed fingerprint that differs
	// from the fingerprint the caller claimed for the content.
	ErrIntegrityMismatch = errors.New("content hash does not match declared hash")
	// ErrStorageWrite reports an I/O failure while persisting blob bytes.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrStorageRead reports an I/O failure while streaming blob bytes out.
	ErrStorageRead = errors.New("storage read failed")
)
