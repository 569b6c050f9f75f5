package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDetectOutputMode(t *testing.T) {
	tests := []struct {
		name        string
		interactive bool
		noColor     bool
		plain       bool
		stdoutTTY   bool
		stdinTTY    bool
		env         map[string]string
		want        OutputMode
	}{
		{name: "pipe", stdoutTTY: false, want: OutputModePlain},
		{name: "terminal", stdoutTTY: true, stdinTTY: true, want: OutputModeStyled},
		{name: "interactive", interactive: true, stdoutTTY: true, stdinTTY: true, want: OutputModeInteractive},
		{name: "interactive without stdin", interactive: true, stdoutTTY: true, want: OutputModeStyled},
		{name: "plain flag", plain: true, stdoutTTY: true, want: OutputModePlain},
		{name: "no-color flag", noColor: true, stdoutTTY: true, want: OutputModePlain},
		{name: "NO_COLOR", stdoutTTY: true, env: map[string]string{"NO_COLOR": ""}, want: OutputModePlain},
		{name: "dumb terminal", stdoutTTY: true, env: map[string]string{"TERM": "dumb"}, want: OutputModePlain},
		{name: "CI", interactive: true, stdoutTTY: true, stdinTTY: true, env: map[string]string{"CI": "true"}, want: OutputModePlain},
		{name: "CI=false", stdoutTTY: true, env: map[string]string{"CI": "false"}, want: OutputModeStyled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectOutputMode(tt.interactive, tt.noColor, tt.plain, tt.stdoutTTY, tt.stdinTTY, envFrom(tt.env))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputModeString(t *testing.T) {
	assert.Equal(t, "plain", OutputModePlain.String())
	assert.Equal(t, "interactive", OutputModeInteractive.String())
}

func TestRenderImprovement(t *testing.T) {
	assert.Contains(t, RenderImprovement(36.96), "37.0%")
	assert.Contains(t, RenderImprovement(36.96), "▼")
	assert.Contains(t, RenderImprovement(-12), "▲")
	assert.NotContains(t, RenderImprovement(0.01), "▼")
}
