package hook

import (
	"testing"

	"github.com/modctl/modctl/pkg/errors"
)

func TestNamed(t *testing.T) {
	a, err := Named("restart-unit")
	if err != nil {
		t.Fatalf("Named() error = %v", err)
	}
	if a.Kind != KindNamed || a.Name != "restart-unit" {
		t.Errorf("unexpected action: %+v", a)
	}

	if _, err := Named("  "); err == nil {
		t.Error("expected empty name to be rejected")
	}
}

func TestMustNamed(t *testing.T) {
	a := MustNamed("restart-unit")
	if a.Kind != KindNamed || a.Name != "restart-unit" {
		t.Errorf("unexpected action: %+v", a)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty name")
		}
	}()
	MustNamed("  ")
}

func TestExec(t *testing.T) {
	a, err := Exec("systemctl", "enable", "--now", "node_exporter.service")
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if a.Kind != KindExec || len(a.Argv) != 4 {
		t.Errorf("unexpected action: %+v", a)
	}
}

func TestExecRejectsUnsafeVectors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"empty vector", nil},
		{"blank command", []string{"   "}},
		{"newline injection", []string{"systemctl", "start\nrm -rf /"}},
		{"carriage return", []string{"echo", "a\rb"}},
		{"null byte", []string{"echo", "a\x00b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Exec(tt.argv...)
			if err == nil {
				t.Fatal("expected UnsafeHookRejected")
			}
			if errors.CodeOf(err) != errors.ErrCodeUnsafeHook {
				t.Errorf("expected code %s, got %s", errors.ErrCodeUnsafeHook, errors.CodeOf(err))
			}
		})
	}
}

func TestExecAllowsShellMetacharactersAsData(t *testing.T) {
	// The backend passes a true argument vector, so metacharacters are
	// plain data and must not be rejected.
	if _, err := Exec("grep", "-E", "a|b; rm", "/dev/null"); err != nil {
		t.Errorf("metacharacters inside an argument should be allowed, got %v", err)
	}
}

func TestActionValidate(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		wantErr bool
	}{
		{"none", None(), false},
		{"named", Action{Kind: KindNamed, Name: "noop"}, false},
		{"named empty", Action{Kind: KindNamed}, true},
		{"exec", Action{Kind: KindExec, Argv: []string{"true"}}, false},
		{"exec empty", Action{Kind: KindExec}, true},
		{"unknown kind", Action{Kind: "shell"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	if !None().IsZero() {
		t.Error("None() should be zero")
	}
	if (Action{Kind: KindNamed, Name: "noop"}).IsZero() {
		t.Error("named action should not be zero")
	}
}
