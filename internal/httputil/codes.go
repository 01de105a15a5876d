package httputil

// Machine-readable error codes returned in the "code" field
const (
	CodeInternalError      = "internal-error"
	CodeInvalidRequestBody = "invalid-request-body"
	CodeMethodNotAllowed   = "method-not-allowed"
	CodeRouteNotFound      = "route-not-found"
	CodeTooManyRequests    = "too-many-requests"
	CodeCooldownActive     = "cooldown-active"

	// auth
	CodeMissingAuth        = "missing-auth"
	CodeInvalidAuthHeader  = "invalid-auth-header"
	CodeInvalidToken       = "invalid-token"
	CodeTokenExpired       = "token-expired"
	CodeInvalidCredentials = "invalid-credentials"
	CodeUntrustedCaller    = "untrusted-caller"
	CodeUserNotFound       = "user-not-found"
	CodeProfileNotFound    = "profile-not-found"
	CodeTokenIssueFailed   = "token-issue-failed"

	// signup
	CodeValidationFailed   = "validation-failed"
	CodeEmailRequired      = "email-required"
	CodeInvalidEmailFormat = "invalid-email-format"
	CodeEmailDomain        = "email-domain-not-allowed"
	CodeEmailSendFailed    = "email-send-failed"

	// products
	CodeProductIDRequired = "product-id-required"
	CodeProductNotFound   = "product-not-found"
	CodeNotOwner          = "not-owner"
	CodeInvalidStatus     = "invalid-status"
	CodeMissingFields     = "missing-fields"
	CodeInvalidPrice      = "invalid-price"
	CodeImagesRequired    = "images-required"

	// uploads
	CodeNoImages      = "no-images"
	CodeNoValidImages = "no-valid-images"
	CodeFileTooLarge  = "file-too-large"
	CodeUploadFailed  = "upload-failed"

	// upstream
	CodeStoreError   = "store-error"
	CodeStorageError = "storage-error"
)
