package resp

const (
	CodeOK             = "ok"
	CodeQueued         = "queued"
	CodeBadRequest     = "bad_request"
	CodeNotFound       = "not_found"
	CodeReauthRequired = "reauth_required"
	CodeInternalError  = "internal_error"
)
