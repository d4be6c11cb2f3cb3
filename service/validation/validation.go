package validation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/beldeveloper/app-promoter/model"
)

// The patterns keep the inputs safe for image references and namespace labels.
// Branch names additionally allow the separators that the release identity sanitizes.
var (
	branchRx   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/*-]*$`)
	tagRx      = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	imageRx    = regexp.MustCompile(`^[a-z0-9][a-z0-9._/-]*$`)
	registryRx = regexp.MustCompile(`^[a-z0-9][a-z0-9.:_/-]*$`)
)

// NewValidation creates a new instance of the validation service.
func NewValidation() Validation {
	return Validation{}
}

// Validation implements the validation service.
type Validation struct {
}

// StartRun validates the input for a new promotion run.
func (v Validation) StartRun(ctx context.Context, f model.FormStartRun) (model.FormStartRun, error) {
	f.Branch = strings.TrimSpace(f.Branch)
	f.Tag = strings.TrimSpace(f.Tag)
	f.Image = strings.TrimSpace(f.Image)
	f.Registry = strings.TrimSpace(f.Registry)
	if f.Branch == "" {
		return f, fmt.Errorf("%w: branch must not be empty", model.ErrBadInput)
	}
	if !branchRx.MatchString(f.Branch) {
		return f, fmt.Errorf("%w: branch contains invalid characters", model.ErrBadInput)
	}
	if f.Tag == "" {
		return f, fmt.Errorf("%w: tag must not be empty", model.ErrBadInput)
	}
	if !tagRx.MatchString(f.Tag) {
		return f, fmt.Errorf("%w: tag contains invalid characters", model.ErrBadInput)
	}
	if f.Image == "" {
		return f, fmt.Errorf("%w: image must not be empty", model.ErrBadInput)
	}
	if !imageRx.MatchString(f.Image) {
		return f, fmt.Errorf("%w: image contains invalid characters", model.ErrBadInput)
	}
	if f.Registry != "" && !registryRx.MatchString(f.Registry) {
		return f, fmt.Errorf("%w: registry contains invalid characters", model.ErrBadInput)
	}
	return f, nil
}
