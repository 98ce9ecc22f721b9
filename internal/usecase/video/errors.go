package video

import "errors"

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrJobNotFound   = errors.New("processing job not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrJobActive     = errors.New("video already has an active processing job")
	ErrPersistence   = errors.New("persistence error")

	ErrStorageUnavailable = errors.New("storage: unavailable")
	ErrObjectNotFound     = errors.New("storage: object not found")
	ErrUnauthorized       = errors.New("storage: unauthorized")
	ErrInternal           = errors.New("storage: internal error")

	ErrDownloadFailed   = errors.New("download failed")
	ErrExtractionFailed = errors.New("extraction failed")

	ErrQueueFull  = errors.New("processing queue is full")
	ErrPoolClosed = errors.New("processing pool is shut down")
)
