package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrNotFound                = errors.New("not found")
	ErrTemporary               = errors.New("temporary failure")
	ErrDuplicateProspect       = errors.New("duplicate prospect domain")
	ErrMalformedAdCopy         = errors.New("malformed ad copy")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	ErrSiteDNS     = errors.New("site dns lookup failed")
	ErrSiteRefused = errors.New("site connection refused")
	ErrSiteTimeout = errors.New("site request timed out")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// SiteFailureReason renders a fetch error as a short user-facing reason.
func SiteFailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSiteDNS):
		return "domain does not resolve"
	case errors.Is(err, ErrSiteRefused):
		return "connection refused"
	case errors.Is(err, ErrSiteTimeout):
		return "website timed out"
	default:
		return "website could not be fetched"
	}
}
