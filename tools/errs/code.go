package errs

// Error codes grouped by class. The websocket layer treats 11xx as fatal
// to the connection attempt; everything else leaves the connection alive.
const (
	CodeInternal = 1000
	CodeArgs     = 1001

	CodeNoCredential      = 1101
	CodeInvalidCredential = 1102

	CodeNotFamilyMember = 1201
	CodeNotRecordOwner  = 1202

	CodeRecordNotFound = 1301

	CodeDeliveryFailed = 1401
)

var (
	ErrInternal = NewCodeError(CodeInternal, "InternalError")
	ErrArgs     = NewCodeError(CodeArgs, "ArgsError")

	// Authentication: fatal to the handshake, never registered.
	ErrNoCredential      = NewCodeError(CodeNoCredential, "NO_CREDENTIAL")
	ErrInvalidCredential = NewCodeError(CodeInvalidCredential, "INVALID_CREDENTIAL")

	// Authorization: rejected, connection stays up.
	ErrNotFamilyMember = NewCodeError(CodeNotFamilyMember, "NotFamilyMember")
	ErrNotRecordOwner  = NewCodeError(CodeNotRecordOwner, "NotRecordOwner")

	ErrRecordNotFound = NewCodeError(CodeRecordNotFound, "RecordNotFound")

	// Single-handle push failure; logged, never propagated past a cast.
	ErrDeliveryFailed = NewCodeError(CodeDeliveryFailed, "DeliveryFailed")
)
