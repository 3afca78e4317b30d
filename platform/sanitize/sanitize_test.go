package sanitize

import "testing"

func TestTextStripsMarkupAndControls(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Cambio de llave <b>urgente</b>  ", "Cambio de llave urgente"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;presupuesto", "alert(1)presupuesto"},
		{"línea uno\nlínea dos", "línea uno\nlínea dos"},
		{"nota\x00con\x07ruido", "notaconruido"},
	}
	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Errorf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTextPtrKeepsNil(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatal("nil input must stay nil")
	}
	in := " <i>sin IVA</i> "
	if got := TextPtr(&in); got == nil || *got != "sin IVA" {
		t.Fatalf("got %v", got)
	}
}
