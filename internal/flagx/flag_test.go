package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	args := []string{"-a", "http://localhost:8080", "-x", "junk"}
	got := FilterArgs(args, []string{"-a"})
	require.Equal(t, []string{"-a", "http://localhost:8080"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	args := []string{"--scope=isolated", "-other=1"}
	got := FilterArgs(args, []string{"--scope"})
	require.Equal(t, []string{"--scope=isolated"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	args := []string{"-v", "-a", "addr"}
	got := FilterArgs(args, []string{"-v"})
	require.Equal(t, []string{"-v"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	require.Empty(t, got)
	require.NotNil(t, got)
}
