package bencode

import (
	"bytes"
	"testing"
)

func TestEncode_scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int", 42, "i42e"},
		{"negative int", -3, "i-3e"},
		{"string", "spam", "4:spam"},
		{"empty string", "", "0:"},
		{"list", List{"spam", "eggs"}, "l4:spam4:eggse"},
		{"dict sorted keys", Dict{"cow": "moo", "spam": "eggs"}, "d3:cow3:moo4:spam4:eggse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Encode(&buf, tt.in)
			if buf.String() != tt.want {
				t.Errorf("Encode(%v) = %q, want %q", tt.in, buf.String(), tt.want)
			}
		})
	}
}

func TestEncode_dictKeyOrder(t *testing.T) {
	d := Dict{
		"zeta":  1,
		"alpha": 2,
		"Beta":  3, // uppercase sorts before lowercase in byte order
	}
	var buf bytes.Buffer
	Encode(&buf, d)
	want := "d4:Betai3e5:alphai2e4:zetai1ee"
	if buf.String() != want {
		t.Errorf("Encode() = %q, want %q", buf.String(), want)
	}
}

func TestMarshal_struct(t *testing.T) {
	type info struct {
		Name        string `bencode:"name"`
		PieceLength int64  `bencode:"piece length"`
		Private     *int64 `bencode:"private,omitempty"`
	}

	got, err := Marshal(info{Name: "test", PieceLength: 262144})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := "d4:name4:test12:piece lengthi262144ee"
	if string(got) != want {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}

	priv := int64(1)
	got, err = Marshal(info{Name: "test", PieceLength: 1, Private: &priv})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want = "d4:name4:test12:piece lengthi1e7:privatei1ee"
	if string(got) != want {
		t.Errorf("Marshal() with private = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	orig := Dict{
		"name":         "example",
		"piece length": int64(16384),
		"files": List{
			Dict{"length": int64(10), "path": List{"a.txt"}},
		},
	}
	var buf bytes.Buffer
	Encode(&buf, orig)

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	d, ok := decoded.(Dict)
	if !ok {
		t.Fatalf("decoded value is %T, want Dict", decoded)
	}
	if string(d["name"].([]byte)) != "example" {
		t.Errorf("name = %q, want %q", d["name"], "example")
	}
	if d["piece length"].(int64) != 16384 {
		t.Errorf("piece length = %v, want 16384", d["piece length"])
	}
}

func TestEncode_deterministic(t *testing.T) {
	d := Dict{"b": "2", "a": "1", "c": List{1, 2, 3}}
	var buf1, buf2 bytes.Buffer
	Encode(&buf1, d)
	Encode(&buf2, d)
	if buf1.String() != buf2.String() {
		t.Errorf("encoding is not deterministic: %q != %q", buf1.String(), buf2.String())
	}
}
