package api

// PayloadError is the body of every error response.
type PayloadError struct {
	Detail interface{} `json:"detail"`
}

type PayloadMessage struct {
	Message string `json:"message"`
}

type PayloadHealth struct {
	Status string `json:"status"`
}
