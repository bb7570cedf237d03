package commands_test

import (
	"strings"
	"testing"

	"sitevault/internal/cli"
	"sitevault/internal/commands"
)

func TestPurgeRejectsBareDaysFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	err := (&commands.PurgeCommand{}).Run(&cli.Context{Args: []string{"-days"}})
	if err == nil || !strings.Contains(err.Error(), "requires a value") {
		t.Fatalf("expected a missing-value error, got %v", err)
	}
}

func TestPurgeRejectsBadDaysValue(t *testing.T) {
	t.Chdir(t.TempDir())

	err := (&commands.PurgeCommand{}).Run(&cli.Context{Args: []string{"-days", "soon"}})
	if err == nil || !strings.Contains(err.Error(), "invalid -days value") {
		t.Fatalf("expected an invalid-value error, got %v", err)
	}
}
