package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "pgedge-salarywh "+Version) {
		t.Errorf("Unexpected info: %s", info)
	}
	if !strings.Contains(info, "commit: "+Commit) {
		t.Errorf("Info missing commit: %s", info)
	}
}

func TestBuild(t *testing.T) {
	b := Build()
	if b["version"] != Version {
		t.Errorf("Expected version %s, got %s", Version, b["version"])
	}
	if _, ok := b["commit"]; !ok {
		t.Error("Build missing commit")
	}
	if _, ok := b["build_date"]; !ok {
		t.Error("Build missing build_date")
	}
}
