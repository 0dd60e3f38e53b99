package clipboard

import (
	"errors"
	"reflect"
	"testing"
)

func fakeLookPath(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCommandSelection(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		available []string
		want      []string
		wantErr   bool
	}{
		{name: "macOS", goos: "darwin", available: []string{"pbcopy"}, want: []string{"pbcopy"}},
		{name: "windows", goos: "windows", available: []string{"clip"}, want: []string{"clip"}},
		{name: "wayland first", goos: "linux", available: []string{"xclip", "wl-copy"}, want: []string{"wl-copy"}},
		{name: "xclip", goos: "linux", available: []string{"xclip"}, want: []string{"xclip", "-selection", "clipboard"}},
		{name: "xsel", goos: "freebsd", available: []string{"xsel"}, want: []string{"xsel", "--clipboard", "--input"}},
		{name: "none", goos: "linux", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Clipboard{goos: tt.goos, lookPath: fakeLookPath(tt.available...)}
			got, err := c.command()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				if c.Enabled() {
					t.Fatal("clipboard should be disabled")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("command = %v, want %v", got, tt.want)
			}
		})
	}
}
