package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"duration string", "5s", 5 * time.Second, false},
		{"compound", "1m30s", 90 * time.Second, false},
		{"bare integer is seconds", "10", 10 * time.Second, false},
		{"garbage", "soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := yaml.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}
}

func TestDurationMarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(Duration(5 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, "5s\n", string(out))
}
