package domain

import (
	"fmt"
	"strings"

	"github.com/alanyoungcy/treasurydesk/internal/fraction"
)

// InquiryState is the lifecycle state of a customer inquiry.
type InquiryState string

const (
	InquiryReceived         InquiryState = "RECEIVED"
	InquiryQuoted           InquiryState = "QUOTED"
	InquiryDone             InquiryState = "DONE"
	InquiryRejected         InquiryState = "REJECTED"
	InquiryCustomerRejected InquiryState = "CUSTOMER_REJECTED"
)

// ParseInquiryState maps a feed value to an InquiryState.
func ParseInquiryState(s string) (InquiryState, error) {
	switch st := InquiryState(strings.ToUpper(strings.TrimSpace(s))); st {
	case InquiryReceived, InquiryQuoted, InquiryDone, InquiryRejected, InquiryCustomerRejected:
		return st, nil
	}
	return "", fmt.Errorf("inquiry state %q: %w", s, ErrMalformedRecord)
}

// Terminal reports whether no further transition is possible.
func (s InquiryState) Terminal() bool {
	switch s {
	case InquiryDone, InquiryRejected, InquiryCustomerRejected:
		return true
	}
	return false
}

// Inquiry is a customer request for a quote.
type Inquiry struct {
	InquiryID string
	Product   Bond
	Side      Side
	Quantity  int64
	Price     float64
	State     InquiryState
}

func (i Inquiry) PersistKey() string { return i.InquiryID }

func (i Inquiry) String() string {
	return fmt.Sprintf("%s %s %s %s %d %s",
		i.Product.Ticker, i.InquiryID, i.Side, fraction.Format(i.Price), i.Quantity, i.State)
}
