package domain

import (
	"fmt"
	"strings"
	"time"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid  InvoiceStatus = "unpaid"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceUnpaid, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// Invoice bills a client for a project.
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	ProjectID     string        `json:"project"`
	ClientID      string        `json:"client"`
	Amount        float64       `json:"amount"`
	Status        InvoiceStatus `json:"status"`
	DueDate       time.Time     `json:"dueDate"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// invoiceSuffixLen is the number of nonce characters appended to an invoice
// number so two invoices created in the same millisecond stay distinct.
const invoiceSuffixLen = 8

// InvoiceNumberAt returns the invoice number for t, INV-<unix millis>-<nonce>.
// Only the first invoiceSuffixLen characters of nonce are used.
func InvoiceNumberAt(t time.Time, nonce string) string {
	if len(nonce) > invoiceSuffixLen {
		nonce = nonce[:invoiceSuffixLen]
	}
	return fmt.Sprintf("INV-%d-%s", t.UnixMilli(), strings.ToUpper(nonce))
}
