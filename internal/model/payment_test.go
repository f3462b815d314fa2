package model

import "testing"

func TestRefundStatusOrder(t *testing.T) {
	nextCases := []struct {
		cur    string
		want   string
		wantOK bool
	}{
		{PaymentCompleted, PaymentRefundPending, true},
		{PaymentRefundPending, PaymentRefundProcessing, true},
		{PaymentRefundProcessing, PaymentRefunded, true},
		{PaymentRefunded, "", false},
		{"bogus", "", false},
		{"completed", "", false}, // statuses are case-sensitive
	}
	for _, tc := range nextCases {
		got, ok := NextRefundStatus(tc.cur)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("NextRefundStatus(%q) = (%q, %v), want (%q, %v)", tc.cur, got, ok, tc.want, tc.wantOK)
		}
	}

	prevCases := []struct {
		target string
		want   string
		wantOK bool
	}{
		{PaymentRefundPending, PaymentCompleted, true},
		{PaymentRefundProcessing, PaymentRefundPending, true},
		{PaymentRefunded, PaymentRefundProcessing, true},
		{PaymentCompleted, "", false},
		{"", "", false},
	}
	for _, tc := range prevCases {
		got, ok := PrevRefundStatus(tc.target)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("PrevRefundStatus(%q) = (%q, %v), want (%q, %v)", tc.target, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestValidPaymentStatus(t *testing.T) {
	for _, s := range []string{PaymentCompleted, PaymentRefundPending, PaymentRefundProcessing, PaymentRefunded} {
		if !ValidPaymentStatus(s) {
			t.Errorf("ValidPaymentStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "PENDING", "refunded", "CANCELLED"} {
		if ValidPaymentStatus(s) {
			t.Errorf("ValidPaymentStatus(%q) = true", s)
		}
	}
}
