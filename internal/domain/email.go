package domain

// EmailMessage transient outbound message; built from a contact or a category's
// member emails plus user-supplied subject/body, handed to the mail transport
// and discarded. Never persisted.
type EmailMessage struct {
	// Recipients holds one address for a single contact, or every member
	// address of a category joined by ";" for a group message.
	Recipients string `json:"email_address"`
	GroupName  string `json:"group_name,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Subject    string `json:"email_subject"`
	Body       string `json:"email_body"`
}
