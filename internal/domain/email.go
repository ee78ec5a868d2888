package domain

// Attachment is a file attached to an outbound email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// OutboundEmail is a message handed to the mailer.
type OutboundEmail struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}
