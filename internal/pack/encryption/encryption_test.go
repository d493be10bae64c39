package encryption

import "testing"

func TestU32RoundTrip(t *testing.T) {
	c, err := NewIndexCipher()
	if err != nil {
		t.Fatalf("NewIndexCipher: %v", err)
	}
	enc := EncryptU32(c, 7, 123456)
	got := DecryptU32(c, 7, enc)
	if got != 123456 {
		t.Fatalf("got %d want 123456", got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	c, err := NewDataCipher()
	if err != nil {
		t.Fatalf("NewDataCipher: %v", err)
	}
	s := "db/unit_stats_land_tables/my_mod_table"
	enc := EncryptString(c, s)
	got, err := DecryptString(c, uint8(len(s)), enc)
	if err != nil {
		t.Fatalf("DecryptString: %v", err)
	}
	if got != s {
		t.Fatalf("got %q want %q", got, s)
	}
}
