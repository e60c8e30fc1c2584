package dto

// PublishMessageRequest forwards a text message to the broker under a topic
type PublishMessageRequest struct {
	Topic   string `json:"topic" validate:"required"`
	Message string `json:"message" validate:"required"`
}
