package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("metrics.listen_address", "cannot be empty")
	if !strings.Contains(err.Error(), "metrics.listen_address") {
		t.Errorf("Error() = %q, want field name included", err.Error())
	}

	bare := NewConfigError("", "failed to load config")
	if strings.Contains(bare.Error(), " in ") {
		t.Errorf("Error() = %q, want no field clause for empty field", bare.Error())
	}
}

func TestCommandError(t *testing.T) {
	inner := errors.New("boom")
	err := NewCommandError("serve", inner)

	if !strings.Contains(err.Error(), "serve") {
		t.Errorf("Error() = %q, want command name included", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("CommandError should unwrap to the inner error")
	}
}
