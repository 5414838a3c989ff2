package timezone

import "testing"

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name string
		tz   string
		want string
	}{
		{name: "empty falls back to UTC", tz: "", want: "UTC"},
		{name: "unknown falls back to UTC", tz: "Mars/Olympus", want: "UTC"},
		{name: "iana name", tz: "Africa/Luanda", want: "Africa/Luanda"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loadLocation(tt.tz).String(); got != tt.want {
				t.Errorf("loadLocation(%q) = %s, want %s", tt.tz, got, tt.want)
			}
		})
	}
}
