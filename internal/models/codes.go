package models

// Wire codes carried in the {code,msg,body} response envelope. These are
// business-level codes, distinct from HTTP status codes: the transport layer
// only distinguishes 2xx, 401 and everything else.
const (
	CodeOK          = 200 // request succeeded
	CodePending     = 0   // order still queued, poll again
	CodeConflict    = 409 // lost a race: stock, table or discount taken
	CodeKitchenBusy = 101 // decrease refused, the dish is already being prepared
	CodeBadRequest  = 400 // malformed intent, not retryable
)
