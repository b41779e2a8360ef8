package models

import "strings"

// Address is stored by value on parties. Invoices keep a formatted snapshot
// instead, so later party edits never rewrite a generated invoice.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
	Country string `json:"country" bson:"country"`
}

// Format joins the non-empty street, city, state and pincode.
func (a Address) Format() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.Pincode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// IsZero reports whether no address line was filled in.
func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Pincode == ""
}
