package dto

// DJApplicationRequest is the booking form filled in by artists.
type DJApplicationRequest struct {
	ArtistName  string `json:"artistName" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Genre       string `json:"genre" validate:"omitempty,max=200"`
	SocialMedia string `json:"socialMedia" validate:"omitempty,max=500"`
	SetLink     string `json:"setLink" validate:"omitempty,url"`
	About       string `json:"about" validate:"omitempty,max=5000"`
}

// DJApplicationResponse confirms the application email was handed off.
type DJApplicationResponse struct {
	Sent bool `json:"sent"`
}
