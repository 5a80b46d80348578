package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OwnerResponse struct {
	ResourceID string `json:"resource_id"`
	OwnerID    string `json:"owner_id"`
}

type TransferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id"`
}
