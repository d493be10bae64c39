package text

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	data := []byte("local x = 1\n")
	tx := Decode("script/campaign/startpos.lua", data)
	if tx.Format != FormatLua {
		t.Fatalf("expected FormatLua, got %v", tx.Format)
	}
	if string(Encode(tx)) != string(data) {
		t.Fatalf("round trip mismatch: got %q want %q", Encode(tx), data)
	}
}

func TestFormatInference(t *testing.T) {
	cases := map[string]Format{
		"a.xml":  FormatXML,
		"a.json": FormatJSON,
		"a.csv":  FormatCSV,
		"a.html": FormatHTML,
		"a.md":   FormatMarkdown,
		"a.bin":  FormatPlain,
	}
	for path, want := range cases {
		got := Decode(path, nil).Format
		if got != want {
			t.Errorf("formatForPath(%q) = %v, want %v", path, got, want)
		}
	}
}
