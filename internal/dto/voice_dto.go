package dto

type SynthesizeRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
	Role string `json:"role" validate:"required,oneof=shareholder company"`
}
