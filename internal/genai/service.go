package genai

import (
	"context"
	"errors"
)

// ImagePayload is raw encoded pixels plus their MIME type, the only currency
// the canvas core exchanges with the generative collaborators.
type ImagePayload struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mime_type"`
}

// VideoPayload is one generated video clip.
type VideoPayload struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mime_type"`
}

// Result carries zero or more generated images.
type Result struct {
	Images []ImagePayload `json:"images"`
}

// EditOptions are the optional knobs of an edit/combine/inpaint call.
type EditOptions struct {
	Mask           *ImagePayload `json:"mask,omitempty"`
	NegativePrompt string        `json:"negative_prompt,omitempty"`
	SizeHint       string        `json:"size_hint,omitempty"`
}

// VideoRequest describes a video generation job.
type VideoRequest struct {
	Prompt      string        `json:"prompt"`
	AspectRatio string        `json:"aspect_ratio"`
	Count       int           `json:"count"`
	SourceImage *ImagePayload `json:"source_image,omitempty"`
}

// ErrQuota marks a rate-limit/quota rejection; callers surface it with a
// distinct, friendlier message than a generic failure.
var ErrQuota = errors.New("generation quota exceeded")

// ErrNoResult is returned when the collaborator answered but produced nothing
// usable.
var ErrNoResult = errors.New("no usable result")

// Service is the narrow contract the canvas core consumes. Implementations
// do network I/O; nothing here may be called from gesture-mutation code
// paths, and a failed call must never reach a history commit.
type Service interface {
	// EditImage submits source pixels plus an instruction and returns the
	// replacement images to place next to the selection.
	EditImage(ctx context.Context, images []ImagePayload, prompt string, opts EditOptions) (*Result, error)

	// GenerateImage creates images from a text prompt alone.
	GenerateImage(ctx context.Context, prompt, aspectRatio string, count int, negativePrompt string) (*Result, error)

	// GenerateVideo runs an asynchronous job; progress (0..1) is reported via
	// the callback until the job resolves.
	GenerateVideo(ctx context.Context, req VideoRequest, progress func(float64)) ([]VideoPayload, error)

	// RemoveBackground is a thin specialization of EditImage.
	RemoveBackground(ctx context.Context, img ImagePayload) (*Result, error)

	// AutoCombine merges several images into one composition.
	AutoCombine(ctx context.Context, images []ImagePayload) (*Result, error)

	// DescribeImage returns a text prompt describing the image.
	DescribeImage(ctx context.Context, img ImagePayload) (string, error)
}
