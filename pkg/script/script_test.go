package script

import (
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	data := []byte(`
command: ssh
args: ["-p", "2222", "user@host"]
timeout: 10s
steps:
  - regex: "[Pp]assword:"
  - send_line: "secret"
  - glob: "Last login*"
  - expect: "$ "
  - send_line: "exit"
  - eof: true
    timeout: 2s
`)
	sc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.Command != "ssh" {
		t.Errorf("Command = %q", sc.Command)
	}
	if len(sc.Args) != 3 || sc.Args[2] != "user@host" {
		t.Errorf("Args = %v", sc.Args)
	}
	if sc.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", sc.Timeout)
	}
	if len(sc.Steps) != 6 {
		t.Fatalf("Steps = %d, want 6", len(sc.Steps))
	}
	if sc.Steps[1].SendLine == nil || *sc.Steps[1].SendLine != "secret" {
		t.Errorf("step 2 = %+v", sc.Steps[1])
	}
	if !sc.Steps[5].EOF || sc.Steps[5].Timeout != 2*time.Second {
		t.Errorf("step 6 = %+v", sc.Steps[5])
	}
}

func TestParse_SendEmptyString(t *testing.T) {
	// an empty send_line is a bare newline, not a missing action
	sc, err := Parse([]byte("command: cat\nsteps:\n  - send_line: \"\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.Steps[0].SendLine == nil {
		t.Fatal("SendLine should be set")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing command",
			yaml: "steps:\n  - expect: \"$ \"\n",
			want: "no command",
		},
		{
			name: "step without action",
			yaml: "command: sh\nsteps:\n  - timeout: 5s\n",
			want: "step 1",
		},
		{
			name: "step with two actions",
			yaml: "command: sh\nsteps:\n  - expect: \"$ \"\n    send_line: ls\n",
			want: "step 1",
		},
		{
			name: "bad regex",
			yaml: "command: sh\nsteps:\n  - regex: \"[oops\"\n",
			want: "invalid pattern",
		},
		{
			name: "bad glob",
			yaml: "command: sh\nsteps:\n  - glob: \"[oops\"\n",
			want: "invalid pattern",
		},
		{
			name: "not yaml",
			yaml: "{{{",
			want: "parse",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestStep_Pattern(t *testing.T) {
	tests := []struct {
		name string
		step Step
	}{
		{"exact", Step{Expect: "$ "}},
		{"regex", Step{Regex: `\d+`}},
		{"glob", Step{Glob: "*.log"}},
		{"eof", Step{EOF: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.step.pattern(); err != nil {
				t.Errorf("pattern: %v", err)
			}
		})
	}
}
