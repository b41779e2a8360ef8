package models

// InvoicePDFData is the template model for a printed tax invoice.
type InvoicePDFData struct {
	Company    *CompanyProfile
	Invoice    *Invoice
	Contacts   string // formatted mobile numbers
	Date       string // formatted invoice date
	TotalWords string
	CopyTitle  string
}
