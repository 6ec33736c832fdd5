package main

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
)

func TestThemeForDegradesOnBasicTerminals(t *testing.T) {
	full := ThemeFor("dark", colorprofile.TrueColor)
	if full.Accent != darkTheme.Accent {
		t.Errorf("truecolor accent = %v, want %v", full.Accent, darkTheme.Accent)
	}

	basic := ThemeFor("dark", colorprofile.ANSI)
	if basic.Accent != basicTheme.Accent {
		t.Errorf("ansi accent = %v, want the 4-bit fallback", basic.Accent)
	}
	// The chosen name survives degradation so toggling still persists.
	if basic.Name != "dark" {
		t.Errorf("degraded theme name = %q", basic.Name)
	}
}

func TestThemeForLight(t *testing.T) {
	th := ThemeFor("light", colorprofile.ANSI256)
	if th.Name != "light" || th.Accent != lightTheme.Accent {
		t.Errorf("ThemeFor(light) = %+v", th)
	}
}

func TestNextThemeCycles(t *testing.T) {
	if NextTheme("dark") != "light" || NextTheme("light") != "dark" {
		t.Error("theme toggle does not cycle dark/light")
	}
}
