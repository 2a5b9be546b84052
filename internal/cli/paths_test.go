package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/irdump/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("XDG", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/var/cache/user")
		got, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/var/cache/user", "irdump"); got != want {
			t.Errorf("cacheDir() = %q, want %q", got, want)
		}
	})
	t.Run("Home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		got, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(home, ".cache", "irdump"); got != want {
			t.Errorf("cacheDir() = %q, want %q", got, want)
		}
	})
}

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg")
	tests := []struct {
		name string
		cfg  config.Cache
		want string
	}{
		{"Configured", config.Cache{Dir: "/srv/irdump-cache"}, "/srv/irdump-cache"},
		{"Fallback", config.Cache{}, filepath.Join("/xdg", "irdump")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fileCacheDir(tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("fileCacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"bgv", []string{"bgv"}},
		{" bgv , svg ", []string{"bgv", "svg"}},
		{"json,,dot,", []string{"json", "dot"}},
		{"", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseFormats(tt.in)); diff != "" {
			t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestDebugFlagsOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "irdump.toml")
	conf := "[debug]\nprobabilities = true\nschedule_on_dump = true\n"
	if err := os.WriteFile(path, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}

	var f debugFlags
	cmd := &cobra.Command{Use: "dump"}
	f.register(cmd)
	if err := cmd.Flags().Parse([]string{"--config", path, "--schedule=false", "--error", "bailout"}); err != nil {
		t.Fatal(err)
	}
	logger := newLogger(os.Stderr, LogDebug)
	cmd.SetContext(withLogger(context.Background(), logger))

	_, opts, err := f.options(cmd, "loop.toml")
	if err != nil {
		t.Fatalf("options() error = %v", err)
	}
	if opts.Source != "loop.toml" {
		t.Errorf("Source = %q", opts.Source)
	}
	if opts.ScheduleOnDump {
		t.Error("--schedule=false did not override the config file")
	}
	if !opts.Probabilities {
		t.Error("probabilities from the config file were lost")
	}
	if opts.ReportError != "bailout" {
		t.Errorf("ReportError = %q, want bailout", opts.ReportError)
	}
	if opts.Logger != logger {
		t.Error("options() did not take the logger from the command context")
	}
}
