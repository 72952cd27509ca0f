package cli

import "testing"

func TestParseMode(t *testing.T) {
	cases := []struct {
		name     string
		args     []string
		wantMode string
		wantRest int
		wantErr  bool
	}{
		{"flag form", []string{"--mode=trip-service"}, ModeTrip, 0, false},
		{"subcommand form", []string{"payment-service", "--prefetch=4"}, ModePayment, 1, false},
		{"shorthand", []string{"n"}, ModeNotification, 0, false},
		{"alias", []string{"--mode=trip"}, ModeTrip, 0, false},
		{"missing mode", []string{"--prefetch=4"}, "", 1, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mode, rest, err := ParseMode(c.args)
			if c.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode: %v", err)
			}
			if mode != c.wantMode {
				t.Fatalf("mode = %q, want %q", mode, c.wantMode)
			}
			if len(rest) != c.wantRest {
				t.Fatalf("rest = %v, want %d args", rest, c.wantRest)
			}
		})
	}
}
