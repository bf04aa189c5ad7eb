package simpleblog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrImageNotFound indicates a gallery image was not found
	ErrImageNotFound = errors.New("image not found")

	// ErrTagNotFound indicates a tag was not found
	ErrTagNotFound = errors.New("tag not found")

	// ErrCommentNotFound indicates a comment was not found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrProfileNotFound indicates a profile was not found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidStatus indicates an unknown post status
	ErrInvalidStatus = errors.New("invalid post status")

	// ErrInvalidSchedule indicates a missing or malformed schedule timestamp
	ErrInvalidSchedule = errors.New("invalid schedule timestamp")

	// ErrPastSchedule indicates a schedule timestamp that is not in the future
	ErrPastSchedule = errors.New("schedule timestamp is in the past")

	// ErrTitleRequired indicates a publish attempt without a title
	ErrTitleRequired = errors.New("title is required for published posts")

	// ErrPayloadTooLarge indicates an upload above the configured size bound
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrNotAuthorized indicates the caller lacks the required role or ownership
	ErrNotAuthorized = errors.New("not authorized")

	// ErrValidation indicates a malformed or missing required field
	ErrValidation = errors.New("validation failed")

	// ErrNoBlobStore indicates an image operation without a configured blob store
	ErrNoBlobStore = errors.New("no blob store configured")
)

// PostError represents an error related to post operations
type PostError struct {
	PostID uuid.UUID
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for post %s: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// ImageError represents an error related to gallery image operations
type ImageError struct {
	ImageID uuid.UUID
	Op      string
	Err     error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image operation %s failed for image %s: %v", e.Op, e.ImageID, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
