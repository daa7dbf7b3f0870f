package template

import (
	"strings"
	"testing"
	"time"
)

type row struct {
	Call    string
	Name    string
	FreqKHz int
	Notes   string
	At      time.Time
}

func TestEngine_Execute(t *testing.T) {
	engine := NewEngine()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return at.Add(90 * time.Minute) }

	data := row{Call: "K1ABC", Name: "Ann", FreqKHz: 14074, At: at}

	tests := []struct {
		name     string
		template string
		want     string
		wantErr  bool
	}{
		{name: "field", template: `{{ .Call }}`, want: "K1ABC"},
		{name: "pad", template: `[{{ pad 7 .Call }}]`, want: "[K1ABC  ]"},
		{name: "right pad", template: `[{{ pad -7 .Call }}]`, want: "[  K1ABC]"},
		{name: "truncate", template: `{{ truncate 4 .Call }}`, want: "K1A…"},
		{name: "mhz", template: `{{ mhz .FreqKHz }}`, want: "14.074"},
		{name: "ago", template: `{{ ago .At }}`, want: "1h"},
		{name: "timestamp", template: `{{ timestamp .At }}`, want: "2024-03-01 12:00"},
		{name: "default", template: `{{ default "-" .Notes }}`, want: "-"},
		{name: "choose", template: `{{ choose (hasPrefix .Call "K") "US" "DX" }}`, want: "US"},
		{name: "upper", template: `{{ upper .Name }}`, want: "ANN"},
		{name: "color keeps text", template: `{{ color "9" .Call }}`, want: "K1ABC"},
		{name: "unknown field", template: `{{ .Grid }}`, wantErr: true},
		{name: "parse error", template: `{{ .Call `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Execute(tt.template, data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !strings.Contains(got, tt.want) {
				t.Errorf("Execute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEngine_NamedTemplates(t *testing.T) {
	engine := NewEngine()

	if err := engine.LoadTemplate("row", `{{ .Call }} {{ .Name }}`); err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	got, err := engine.ExecuteNamed("row", row{Call: "G4XYZ", Name: "Bo"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "G4XYZ Bo" {
		t.Errorf("ExecuteNamed() = %q", got)
	}

	if _, err := engine.ExecuteNamed("missing", nil); err == nil {
		t.Error("expected an error for an unknown template")
	}
	if err := engine.LoadTemplate("bad", `{{ nope }}`); err == nil {
		t.Error("expected an error for an unknown function")
	}
}

func TestEngine_Validate(t *testing.T) {
	engine := NewEngine()
	if err := engine.Validate(`{{ pad 3 .Call }}`); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := engine.Validate(`{{ if }}`); err == nil {
		t.Error("Validate() should reject a broken template")
	}
}
