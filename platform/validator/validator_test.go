package validator

import "testing"

func TestCurrencyCodeRule(t *testing.T) {
	val := New()
	if err := val.RegisterValidation("currency", CurrencyCode); err != nil {
		t.Fatalf("register: %v", err)
	}

	type payload struct {
		Currency string `validate:"omitempty,currency"`
	}

	for _, code := range []string{"", "EUR", "USD"} {
		if err := val.Struct(payload{Currency: code}); err != nil {
			t.Fatalf("expected %q to pass, got %v", code, err)
		}
	}
	for _, code := range []string{"eur", "EU", "EURO", "E2R"} {
		if err := val.Struct(payload{Currency: code}); err == nil {
			t.Fatalf("expected %q to fail", code)
		}
	}
}
