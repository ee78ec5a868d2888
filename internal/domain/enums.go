package domain

// ContactStatus represents where a contact sits in the sales pipeline.
type ContactStatus string

const (
	ContactStatusLead     ContactStatus = "lead"
	ContactStatusProspect ContactStatus = "prospect"
	ContactStatusCustomer ContactStatus = "customer"
	ContactStatusInactive ContactStatus = "inactive"
)

func (s ContactStatus) String() string { return string(s) }

func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusLead, ContactStatusProspect, ContactStatusCustomer, ContactStatusInactive:
		return true
	}
	return false
}

// InvoiceStatus represents the payment state of an invoice.
// The only transition is unpaid -> paid.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "unpaid"
	InvoiceStatusPaid   InvoiceStatus = "paid"
)

func (s InvoiceStatus) String() string { return string(s) }

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPaid:
		return true
	}
	return false
}
