package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnsupportedReportType indicates a report type outside the known set.
	ErrUnsupportedReportType = errors.New("unsupported report type")
	// ErrUnsupportedFormat indicates an export format outside the known set.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrExportLimitExceeded indicates the plan export quota is spent.
	ErrExportLimitExceeded = errors.New("export limit exceeded for current plan")
	// ErrMissingOwnerRelation indicates a ledger write that references
	// none of the relations ownership is derived from.
	ErrMissingOwnerRelation = errors.New("at least one owning relation is required")
	// ErrDuplicateName indicates a unique name collision within the user's scope.
	ErrDuplicateName = errors.New("name already in use")
	// ErrEmailTaken indicates the registration email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)
