package server

import (
	"testing"
	"time"

	"github.com/iwvelando/loan-engine/pkg/datetime"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := datetime.ParseDate(value)
	require.NoError(t, err)
	return d
}
