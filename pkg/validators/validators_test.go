package validators

import "testing"

func TestPhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "complete mask", input: "+38 (050) 123-45-67", want: true},
		{name: "placeholder left", input: "+38 (050) 123-45-6_", want: false},
		{name: "short", input: "(050) 123-45-67", want: false},
		{name: "empty", input: "", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Phone(tc.input); got != tc.want {
				t.Fatalf("Phone(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{input: "John Smith", want: true},
		{input: "O'Neil", want: true},
		{input: "Тарас Шевченко", want: true},
		{input: "Їжак", want: true},
		{input: "J", want: false},
		{input: "John2", want: false},
		{input: "", want: false},
	}
	for _, tc := range cases {
		if got := Name(tc.input); got != tc.want {
			t.Fatalf("Name(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPrice(t *testing.T) {
	cases := map[string]bool{
		"1":         true,
		"12345678":  true,
		"123456789": false,
		"0":         false,
		"012":       false,
		"12.5":      false,
		"":          false,
	}
	for input, want := range cases {
		if got := Price(input); got != want {
			t.Fatalf("Price(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestAddressNeverValidatesTypedText(t *testing.T) {
	if Address("Khreshchatyk St, 1, Kyiv") {
		t.Fatalf("expected typed address to be rejected")
	}
}

func TestParseKind(t *testing.T) {
	for _, raw := range []string{"phone", " Name ", "PRICE", "address", "none", ""} {
		if _, err := ParseKind(raw); err != nil {
			t.Fatalf("ParseKind(%q): unexpected error %v", raw, err)
		}
	}
	if _, err := ParseKind("email"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(WithFunc(KindPrice, func(string) bool { return true }))

	if valid, applied := reg.Validate(KindPrice, "free"); !applied || !valid {
		t.Fatalf("expected override to apply, got valid=%v applied=%v", valid, applied)
	}
	if valid, applied := reg.Validate(KindPhone, "+38 (050) 123-45-67"); !applied || !valid {
		t.Fatalf("expected builtin phone validator, got valid=%v applied=%v", valid, applied)
	}
	if _, applied := reg.Validate(KindNone, "anything"); applied {
		t.Fatalf("KindNone must not resolve a validator")
	}

	var nilReg *Registry
	if _, ok := nilReg.Lookup(KindPhone); ok {
		t.Fatalf("nil registry must not resolve")
	}
}
