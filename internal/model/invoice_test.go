package model

import (
	"testing"
	"time"
)

func TestInvoiceStatus_Info(t *testing.T) {
	testCases := []struct {
		status  InvoiceStatus
		label   string
		variant string
	}{
		{InvoiceStatusPaid, "Paid", VariantSuccess},
		{InvoiceStatusPending, "Pending", VariantWarning},
		{InvoiceStatusOverdue, "Overdue", VariantDanger},
		{InvoiceStatusCancelled, "Cancelled", VariantDefault},
		{InvoiceStatus("DRAFT"), "Unknown", VariantDefault},
		{InvoiceStatus(""), "Unknown", VariantDefault},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(string(tc.status), func(t *testing.T) {
			t.Parallel()
			info := tc.status.Info()
			if info.Label != tc.label {
				t.Errorf("Label = %s, want %s", info.Label, tc.label)
			}
			if info.Variant != tc.variant {
				t.Errorf("Variant = %s, want %s", info.Variant, tc.variant)
			}
		})
	}
}

func TestInvoiceStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range InvoiceStatuses {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, raw := range []string{"", "paid", "DRAFT", "PAID "} {
		if InvoiceStatus(raw).IsValid() {
			t.Errorf("%q should be invalid", raw)
		}
	}
}

func TestParseInvoiceStatus(t *testing.T) {
	t.Parallel()

	s, ok := ParseInvoiceStatus("OVERDUE")
	if !ok || s != InvoiceStatusOverdue {
		t.Errorf("ParseInvoiceStatus(OVERDUE) = %s, %v", s, ok)
	}
	if _, ok := ParseInvoiceStatus("overdue"); ok {
		t.Error("lowercase status should not parse")
	}
}

func TestSession_IsExpired(t *testing.T) {
	t.Parallel()

	past := &Session{ExpiresAt: time.Now().Add(-time.Minute)}
	if !past.IsExpired() {
		t.Error("expected past session to be expired")
	}
	future := &Session{ExpiresAt: time.Now().Add(time.Hour)}
	if future.IsExpired() {
		t.Error("expected future session to be active")
	}
	if (&Session{}).IsExpired() {
		t.Error("zero expiry should not count as expired")
	}
}
