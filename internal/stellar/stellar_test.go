package stellar

import (
	"errors"
	"testing"

	"github.com/stellar/go/strkey"
)

func TestValidAddress(t *testing.T) {
	for _, tc := range []struct {
		name string
		addr string
		want bool
	}{
		{"Valid", "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7", true},
		{"ValidOther", "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H", true},
		{"BadChecksum", "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN6", false},
		{"SecretSeed", "SAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABSU2", false},
		{"TooShort", "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN", false},
		{"Lowercase", "gaazi4tcr3ty5ojhctjc2a4qsy6cjwjh5iajtgkin2er7lbnvkoccwn7", false},
		{"NotBase32", "G0AZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7", false},
		{"Empty", "", false},
		{"EVM", "0xd90e2f925da726b50c4ed8d0fb90ad053324f31b", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidAddress(tc.addr); got != tc.want {
				t.Errorf("ValidAddress(%q) = %v, want %v", tc.addr, got, tc.want)
			}
		})
	}
}

func TestEncodeAddress(t *testing.T) {
	var zero [32]byte
	if got, want := EncodeAddress(zero), "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"; got != want {
		t.Fatalf("EncodeAddress(zero) = %q, want %q", got, want)
	}

	var key [32]byte
	for i := range key {
		key[i] = byte(i * 7)
	}
	addr := EncodeAddress(key)
	if !ValidAddress(addr) {
		t.Fatalf("encoded address %q does not validate", addr)
	}
}

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    int64
		wantErr error
	}{
		{in: "1", want: 10_000_000},
		{in: "1.5", want: 15_000_000},
		{in: " 100.0000000 ", want: 1_000_000_000},
		{in: "0.0000001", want: 1},
		{in: "0.00000019", want: 1},
		{in: "0.00000001", want: 0},
		{in: "-2.123456789", want: -21_234_567},
		{in: "0", want: 0},
		{in: "922337203685.4775807", want: 9_223_372_036_854_775_807},
		{in: "922337203685.4775808", wantErr: ErrAmountOverflow},
		{in: "1e30", wantErr: ErrAmountOverflow},
		{in: "abc", wantErr: ErrInvalidAmount},
		{in: "", wantErr: ErrInvalidAmount},
	} {
		got, err := ParseAmount(tc.in)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ParseAmount(%q) error = %v, want %v", tc.in, err, tc.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	for _, tc := range []struct {
		in   int64
		want string
	}{
		{0, "0.0000000"},
		{1, "0.0000001"},
		{15_000_000, "1.5000000"},
		{1_000_000_000, "100.0000000"},
	} {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidAddressRejectsOtherKeyTypes(t *testing.T) {
	var key [32]byte
	key[0] = 9
	for _, tc := range []struct {
		name    string
		version strkey.VersionByte
	}{
		{"Seed", strkey.VersionByteSeed},
		{"PreAuthTx", strkey.VersionByteHashTx},
		{"HashX", strkey.VersionByteHashX},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := strkey.MustEncode(tc.version, key[:])
			if ValidAddress(s) {
				t.Errorf("ValidAddress(%q) = true for a %s key", s, tc.name)
			}
		})
	}
	if !ValidAddress(EncodeAddress(key)) {
		t.Error("account ID for the same key should validate")
	}
}
