package erp

import (
	"strings"
	"testing"
)

func TestFormatAddressLocationLine(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{"city and pincode", Address{City: "Dubai", Pincode: "00000"}, "Dubai - 00000"},
		{"city state pincode", Address{City: "Dubai", State: "Dubai Emirate", Pincode: "00000"}, "Dubai, Dubai Emirate - 00000"},
		{"city and state", Address{City: "Sharjah", State: "SHJ"}, "Sharjah, SHJ"},
		{"state and pincode", Address{State: "SHJ", Pincode: "12"}, "SHJ - 12"},
		{"pincode only", Address{Pincode: "12"}, "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatAddress(&tt.addr)
			lines := strings.Split(out, "\n")
			if lines[len(lines)-1] != tt.want {
				t.Errorf("location line = %q, want %q (full: %q)", lines[len(lines)-1], tt.want, out)
			}
		})
	}
}

func TestFormatAddressFieldOrderAndOmission(t *testing.T) {
	out := FormatAddress(&Address{
		AddressTitle: "Home",
		AddressLine1: "Villa 12",
		City:         "Dubai",
		Pincode:      "00000",
		Country:      "United Arab Emirates",
		Phone:        "0502594880",
	})
	want := "📍 *Address:*\nHome\nVilla 12\nDubai - 00000\nUnited Arab Emirates\nPhone: 0502594880"
	if out != want {
		t.Fatalf("got %q\nwant %q", out, want)
	}
}

func TestFormatAddressNotAvailable(t *testing.T) {
	if got := FormatAddress(nil); got != AddressNotAvailable {
		t.Errorf("nil address: got %q", got)
	}
	if got := FormatAddress(&Address{Name: "ADDR-1", City: "  "}); got != AddressNotAvailable {
		t.Errorf("empty address: got %q", got)
	}
	if AddressNotAvailable == AddressFetchFailed {
		t.Error("not-available and fetch-failed placeholders must differ")
	}
	if !strings.Contains(AddressNotAvailable, "not available") {
		t.Errorf("placeholder %q should say not available", AddressNotAvailable)
	}
}

func TestFormatCustomDocumentAllowList(t *testing.T) {
	doc := Document{
		"name":                 "ADDR-0001",
		"custom_flat_number":   "804",
		"custom_building_name": "Marina Heights",
		"custom_secret":        "hidden",
		"owner":                "admin@example.com",
		"custom_makani_number": float64(1234567890),
	}
	out, ok := FormatCustomDocument(doc, AllowedCustomFields)
	if !ok {
		t.Fatal("expected a block")
	}
	want := "Building Name: Marina Heights\nFlat Number: 804\nMakani Number: 1234567890"
	if out != want {
		t.Fatalf("got %q\nwant %q", out, want)
	}
}

func TestFormatCustomDocumentFallback(t *testing.T) {
	doc := Document{"name": "ADDR-2", "address_line1": "Street 5", "pincode": "11"}
	out, ok := FormatCustomDocument(doc, AllowedCustomFields)
	if !ok {
		t.Fatal("expected fallback block")
	}
	if out != "Address: Street 5\nPincode: 11" {
		t.Fatalf("got %q", out)
	}
}

func TestFormatCustomDocumentEmpty(t *testing.T) {
	if out, ok := FormatCustomDocument(Document{"name": "X", "custom_area": ""}, AllowedCustomFields); ok {
		t.Fatalf("expected no block, got %q", out)
	}
}

func TestFieldLabel(t *testing.T) {
	tests := map[string]string{
		"custom_preferred_delivery_time": "Preferred Delivery Time",
		"custom_area":                    "Area",
		"city":                           "City",
		"address_line1":                  "Address",
		"territory":                      "territory",
	}
	for in, want := range tests {
		if got := FieldLabel(in); got != want {
			t.Errorf("FieldLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
