package api

type ErrorResponse struct {
	Error string `json:"error" example:"class is full"`
	Code  string `json:"code,omitempty" example:"class_full"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}
