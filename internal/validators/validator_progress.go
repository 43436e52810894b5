package validators

import (
	"context"

	"github.com/MKhiriev/go-calendar-sync/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation
// to a subset of fields (field-level scoping).
const (
	// FieldUserID targets the owner identifier of a record or request.
	FieldUserID = "user_id"

	// FieldWindowNumber targets the calendar window number of a record or request.
	FieldWindowNumber = "window_number"

	// FieldEnqueuedAt targets the enqueue timestamp of a queued sync event.
	FieldEnqueuedAt = "enqueued_at"

	// FieldLogin targets the login of a user registration or sign-in request.
	FieldLogin = "login"

	// FieldPassword targets the password of a user registration or sign-in request.
	FieldPassword = "password"
)

// ProgressValidator implements the Validator interface for the
// calendar progress domain models: OpenWindowRequest, OpenedWindow,
// QueuedEvent and User.
//
// It supports both value and pointer forms for every model type
// and allows optional field-level scoping via variadic field name arguments.
// Window numbers are valid in the range [1, windowCount].
type ProgressValidator struct {
	windowCount int
}

// NewProgressValidator constructs a new ProgressValidator for a calendar
// of windowCount windows and returns it as the Validator interface.
func NewProgressValidator(windowCount int) Validator {
	return &ProgressValidator{windowCount: windowCount}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported model are accepted.
//
// Supported types:
//   - models.OpenWindowRequest / *models.OpenWindowRequest
//   - models.OpenedWindow / *models.OpenedWindow
//   - models.QueuedEvent / *models.QueuedEvent
//   - models.User / *models.User
//
// Returns ErrUnsupportedType if obj does not match any known model.
// Optional fields restrict validation to the named subset; when omitted,
// a sensible default set of fields is validated.
func (v *ProgressValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.OpenWindowRequest:
		return v.validateOpenWindowRequest(ctx, value, fields...)
	case *models.OpenWindowRequest:
		return v.validateOpenWindowRequest(ctx, *value, fields...)

	case models.OpenedWindow:
		return v.validateOpenedWindow(ctx, value, fields...)
	case *models.OpenedWindow:
		return v.validateOpenedWindow(ctx, *value, fields...)

	case models.QueuedEvent:
		return v.validateQueuedEvent(ctx, value, fields...)
	case *models.QueuedEvent:
		return v.validateQueuedEvent(ctx, *value, fields...)

	case models.User:
		return v.validateUser(ctx, value, fields...)
	case *models.User:
		return v.validateUser(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// windowInRange reports whether n falls inside the calendar,
// i.e. 1 <= n <= windowCount.
func (v *ProgressValidator) windowInRange(n int) bool {
	return n >= 1 && n <= v.windowCount
}

// validateOpenWindowRequest validates a window-open request.
//
// Default validated fields (when none specified): WindowNumber.
func (v *ProgressValidator) validateOpenWindowRequest(ctx context.Context, request models.OpenWindowRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldWindowNumber}
	}

	for _, f := range fields {
		switch f {
		case FieldWindowNumber:
			if !v.windowInRange(request.Window) {
				return ErrWindowOutOfRange
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateOpenedWindow validates a persisted opened-window record.
//
// Default validated fields (when none specified): UserID, WindowNumber.
func (v *ProgressValidator) validateOpenedWindow(ctx context.Context, window models.OpenedWindow, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldWindowNumber}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if window.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldWindowNumber:
			if !v.windowInRange(window.WindowNumber) {
				return ErrWindowOutOfRange
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateQueuedEvent validates a pending sync-queue event,
// typically on queue restore from disk.
//
// Default validated fields (when none specified): WindowNumber, EnqueuedAt.
func (v *ProgressValidator) validateQueuedEvent(ctx context.Context, event models.QueuedEvent, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldWindowNumber, FieldEnqueuedAt}
	}

	for _, f := range fields {
		switch f {
		case FieldWindowNumber:
			if !v.windowInRange(event.WindowNumber) {
				return ErrWindowOutOfRange
			}
		case FieldEnqueuedAt:
			if event.EnqueuedAt.IsZero() {
				return ErrInvalidEnqueuedAt
			}
		case FieldUserID:
			if event.UserID <= 0 {
				return ErrInvalidUserID
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// checked!
func (v *ProgressValidator) validateUser(ctx context.Context, user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if user.Login == "" {
				return ErrEmptyLogin
			}
		case FieldPassword:
			if user.Password == "" {
				return ErrEmptyPassword
			}
		case FieldUserID:
			if user.UserID <= 0 {
				return ErrInvalidUserID
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
