package response

// StandardApiResponse is the envelope every endpoint returns.
type StandardApiResponse struct {
	Status     string      `json:"status"`      // success | error
	StatusCode int         `json:"status_code"` // mirrors the HTTP code
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"` // validation detail per field
}
