package models

// DJApplicationParams are the named template parameters of the application email.
type DJApplicationParams struct {
	ToEmail     string `json:"to_email"`
	FromName    string `json:"from_name"`
	FromEmail   string `json:"from_email"`
	Genre       string `json:"genre"`
	SocialMedia string `json:"social_media"`
	SetLink     string `json:"set_link"`
	Message     string `json:"message"`
}

// EmailSendRequest is the REST payload of the transactional email service.
type EmailSendRequest struct {
	ServiceID      string              `json:"service_id"`
	TemplateID     string              `json:"template_id"`
	UserID         string              `json:"user_id"`
	AccessToken    string              `json:"accessToken,omitempty"`
	TemplateParams DJApplicationParams `json:"template_params"`
}
