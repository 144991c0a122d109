package localization

import "testing"

func TestGet(t *testing.T) {
	s, err := NewService("es")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		lang   string
		key    string
		params map[string]interface{}
		want   string
	}{
		{
			name:   "placeholders replaced",
			lang:   "es",
			key:    "toast.client_created",
			params: map[string]interface{}{"name": "Ana"},
			want:   "Cliente Ana creado",
		},
		{
			name:   "other language",
			lang:   "en",
			key:    "toast.withdrawal_status",
			params: map[string]interface{}{"id": 7, "status": "paid"},
			want:   "Withdrawal #7: paid",
		},
		{
			name: "unknown language falls back",
			lang: "ru",
			key:  "toast.logout",
			want: "Sesión cerrada",
		},
		{
			name: "missing key returns key",
			lang: "es",
			key:  "toast.nope",
			want: "toast.nope",
		},
		{
			name: "section is not a message",
			lang: "es",
			key:  "toast",
			want: "toast",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Get(tt.lang, tt.key, tt.params); got != tt.want {
				t.Errorf("Get(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestUnknownFallbackKeepsSpanish(t *testing.T) {
	s, err := NewService("xx")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.T("toast.reset", nil); got != "Datos restablecidos" {
		t.Errorf("T() = %q", got)
	}
}
