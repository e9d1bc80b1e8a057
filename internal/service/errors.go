package service

import "errors"

// Sentinel errors shared by the service layer. Handlers map these onto
// response codes; repositories never return them directly.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrTokenInvalid       = errors.New("token invalid")

	ErrEventInvalid      = errors.New("event invalid")
	ErrEventNotFound     = errors.New("event not found")
	ErrEventFetchFailed  = errors.New("event fetch failed")
	ErrEventCreateFailed = errors.New("event create failed")
	ErrEventUpdateFailed = errors.New("event update failed")
	ErrEventDeleteFailed = errors.New("event delete failed")

	ErrBatchInvalid        = errors.New("ticket batch invalid")
	ErrBatchNotFound       = errors.New("ticket batch not found")
	ErrBatchFetchFailed    = errors.New("ticket batch fetch failed")
	ErrBatchCodeExhausted  = errors.New("ticket batch code exhausted")
	ErrBatchCreateFailed   = errors.New("ticket batch create failed")
	ErrBatchDocumentFailed = errors.New("ticket batch document failed")

	ErrTicketInvalid      = errors.New("ticket invalid")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketFetchFailed  = errors.New("ticket fetch failed")
	ErrTicketUpdateFailed = errors.New("ticket update failed")

	ErrPurchaseInvalid     = errors.New("purchase invalid")
	ErrPurchaseSoldOut     = errors.New("event sold out")
	ErrPurchaseFailed      = errors.New("purchase failed")
	ErrPaymentDisabled     = errors.New("payment disabled")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentCreateFailed = errors.New("payment create failed")
	ErrPaymentVerifyFailed = errors.New("payment verify failed")

	ErrGalleryInvalid      = errors.New("gallery image invalid")
	ErrGalleryNotFound     = errors.New("gallery image not found")
	ErrGalleryUploadFailed = errors.New("gallery upload failed")

	ErrMessageInvalid      = errors.New("message invalid")
	ErrMessageNotFound     = errors.New("message not found")
	ErrMessageCreateFailed = errors.New("message create failed")

	ErrApplicationInvalid      = errors.New("school application invalid")
	ErrApplicationNotFound     = errors.New("school application not found")
	ErrApplicationCreateFailed = errors.New("school application create failed")

	ErrCaptchaInvalid = errors.New("captcha invalid")

	ErrDashboardFetchFailed = errors.New("dashboard fetch failed")
)
