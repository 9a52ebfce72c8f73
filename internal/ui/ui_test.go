package ui

import (
	"bytes"
	"strings"
	"testing"
)

func restoreOutput() func() {
	o, e := out, errOut
	return func() { out, errOut = o, e }
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		part, total, width int
		want               string
	}{
		{2, 4, 8, "████░░░░  50%"},
		{0, 0, 5, "░░░░░   0%"},
		{3, 3, 2, "█████ 100%"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.part, tt.total, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%d, %d, %d) = %q, want %q", tt.part, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestPanel(t *testing.T) {
	var buf bytes.Buffer
	defer restoreOutput()()
	SetOutput(&buf, nil)
	SetTheme("classic")

	Panel([]string{"ab", C(fgRed, "abcd")})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"┌──────┐",
		"│ ab   │",
		"│ abcd │",
		"└──────┘",
	}
	if len(lines) != len(want) {
		t.Fatalf("Panel() = %q", buf.String())
	}
	for i := range want {
		if stripANSI(lines[i]) != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestColor(t *testing.T) {
	SetColorForcing(true, false)
	defer SetColorForcing(false, false)
	if got := C(fgGreen, "x"); got != fgGreen+"x"+reset {
		t.Errorf("C() = %q", got)
	}
	SetColorForcing(true, true)
	if got := C(fgGreen, "x"); got != "x" {
		t.Errorf("C() with color disabled = %q", got)
	}
}

func TestOKFail(t *testing.T) {
	var stdout, stderr bytes.Buffer
	defer restoreOutput()()
	SetOutput(&stdout, &stderr)
	OK("exported")
	Fail("unable to load places")
	if !strings.Contains(stdout.String(), "✔ exported") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "✖ unable to load places") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
