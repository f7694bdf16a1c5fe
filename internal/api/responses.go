package api

// ErrorResponse is the body of every 4xx and 5xx reply.
type ErrorResponse struct {
	Error string `json:"error" example:"insufficient balance"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Maintenance updated"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
