package slug

import "testing"

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Iluminación LED Exterior": "iluminacion-led-exterior",
		"  Baño & Cocina  ":        "bano-cocina",
		"Tiras LED 5m -- 12V":      "tiras-led-5m-12v",
		"¡Oferta!":                 "oferta",
		"":                         "",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Errorf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValid(t *testing.T) {
	for _, s := range []string{"a", "led-12v", "bombilla-e27-10w"} {
		if !Valid(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "-a", "a-", "a--b", "Mayus", "con espacio", "ñ"} {
		if Valid(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
