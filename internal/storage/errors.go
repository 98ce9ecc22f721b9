package storage

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return video.ErrObjectNotFound
	case "NoSuchBucket":
		return fmt.Errorf("%w: bucket %q does not exist", video.ErrStorageUnavailable, resp.BucketName)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return video.ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", video.ErrInternal, err)
	}
}

func mapS3Err(err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", video.ErrInternal, err)
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return video.ErrObjectNotFound
	case "NoSuchBucket":
		return fmt.Errorf("%w: %s", video.ErrStorageUnavailable, apiErr.ErrorMessage())
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "Forbidden":
		return video.ErrUnauthorized
	default:
		return fmt.Errorf("%w: %v", video.ErrInternal, err)
	}
}
