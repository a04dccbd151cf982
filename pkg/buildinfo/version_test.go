package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if got := String(); !strings.HasPrefix(got, "version: v1.2.3\n") {
		t.Errorf("String() = %q", got)
	}
	if got := Template(); !strings.Contains(got, "version v1.2.3") {
		t.Errorf("Template() = %q", got)
	}
	if got := Map()["version"]; got != "v1.2.3" {
		t.Errorf(`Map()["version"] = %q`, got)
	}
}
