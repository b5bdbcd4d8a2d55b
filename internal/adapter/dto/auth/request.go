package auth

// CallbackRequest represents the query of the OAuth redirect
type CallbackRequest struct {
	Code  string `query:"code" validate:"required"`
	State string `query:"state" validate:"required"`
	Error string `query:"error"`
}

