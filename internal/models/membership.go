package models

// MemberRecord is the member document expected by the membership registry.
type MemberRecord struct {
	FirstName            string  `json:"firstname"`
	LastName             string  `json:"lastname"`
	GenderID             string  `json:"gender_id"`
	SocialSecurityNumber string  `json:"socialsecuritynumber"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone1"`
	Street               string  `json:"street"`
	ZipCode              string  `json:"zip_code"`
	City                 string  `json:"city"`
	Renewed              string  `json:"renewed"`
	SubscribeNewsletter  *string `json:"subscribe_nyhetsbrev"`
}

// MembershipSubmission is the full request body posted to the registry.
type MembershipSubmission struct {
	APIKey string       `json:"api_key"`
	Member MemberRecord `json:"member"`
}

// MembershipResult is the registry's answer. MemberErrors maps field names to
// messages; the registry has been seen sending both single strings and lists.
type MembershipResult struct {
	StoredMember   bool                      `json:"stored_member"`
	MemberErrors   map[string]FlexStringList `json:"member_errors,omitempty"`
	MemberWarnings []string                  `json:"member_warnings,omitempty"`
	StatusCode     int                       `json:"-"`
}
