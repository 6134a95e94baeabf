package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medref/medref/internal/app"
	_ "github.com/medref/medref/internal/testing/guard"
)

func TestMainReturnsInTestMode(t *testing.T) {
	require.True(t, app.InTestMode())
	require.NotPanics(t, main)
}
