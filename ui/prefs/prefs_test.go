package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func testPrefs(t *testing.T) *Prefs {
	t.Helper()
	return &Prefs{
		values: make(map[string]interface{}),
		path:   filepath.Join(t.TempDir(), prefsFile),
	}
}

func TestAccessorDefaults(t *testing.T) {
	p := testPrefs(t)

	if got := p.String("missing"); got != "" {
		t.Errorf("String(missing) = %q, want empty", got)
	}
	if got := p.FloatWithFallback("missing", 1.5); got != 1.5 {
		t.Errorf("FloatWithFallback(missing) = %v, want 1.5", got)
	}
	if !p.Bool("missing", true) {
		t.Error("Bool(missing) must return the fallback")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := testPrefs(t)
	p.SetString("lastDirectory", "/tmp/docs")
	p.SetFloat("uiFontScale", 1.3)
	p.SetBool("spreadMode", true)

	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		t.Fatalf("reading saved prefs: %v", err)
	}
	loaded := &Prefs{values: make(map[string]interface{}), path: p.path}
	if err := json.Unmarshal(data, &loaded.values); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := loaded.String("lastDirectory"); got != "/tmp/docs" {
		t.Errorf("lastDirectory = %q, want /tmp/docs", got)
	}
	if got := loaded.FloatWithFallback("uiFontScale", 1.0); got != 1.3 {
		t.Errorf("uiFontScale = %v, want 1.3", got)
	}
	if !loaded.Bool("spreadMode", false) {
		t.Error("spreadMode must survive the round trip")
	}
}
