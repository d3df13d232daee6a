package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/core/schedule"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		res  schedule.Result
		want int
	}{
		{name: "selected exits zero", res: schedule.Result{Kind: schedule.KindSelected}, want: 0},
		{name: "empty exits zero", res: schedule.Result{Kind: schedule.KindEmpty}, want: 0},
		{name: "halt exits two", res: schedule.Result{Kind: schedule.KindHalt}, want: exitCodeHalt},
		{name: "invalid exits three", res: schedule.Result{Kind: schedule.KindInvalid}, want: exitCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exitCode(tt.res)
			if tt.want == 0 {
				assert.NoError(t, err)
				return
			}

			var coder cli.ExitCoder
			require.ErrorAs(t, err, &coder)
			assert.Equal(t, tt.want, coder.ExitCode())
		})
	}
}

func TestRequireAppOutsideWorkspace(t *testing.T) {
	flags := &Flags{}

	_, err := flags.RequireApp()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forage init")
}
