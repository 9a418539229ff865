package dto

// MembershipRequest is the membership form as submitted by the site.
type MembershipRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Gender      string `json:"gender" validate:"required,oneof=female male other prefer-not-to-say"`
	BirthDay    string `json:"birthDay" validate:"required,day_of_month"`
	BirthMonth  string `json:"birthMonth" validate:"required,month_of_year"`
	BirthYear   string `json:"birthYear" validate:"required,number,len=4"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=32"`
	Street      string `json:"street" validate:"required,max=200"`
	Zip         string `json:"zip" validate:"required,max=16"`
	City        string `json:"city" validate:"required,max=100"`
	AcceptTerms bool   `json:"acceptTerms"`
}

// MembershipResponse confirms a stored registration.
type MembershipResponse struct {
	Stored bool `json:"stored"`
}
