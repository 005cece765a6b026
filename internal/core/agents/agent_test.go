package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskUsesConfiguredSampling(t *testing.T) {
	mock := &MockClient{Response: "ok"}
	rc := Reasoning{Client: mock, Temperature: 0.9, MaxTokens: 64}

	_, err := ask(context.Background(), rc, "system", "user")
	require.NoError(t, err)

	require.Len(t, mock.Temperatures, 1)
	assert.Equal(t, 0.9, mock.Temperatures[0])
	assert.Equal(t, 64, mock.TokenCaps[0])
}

func TestAskFallsBackToDefaultSampling(t *testing.T) {
	mock := &MockClient{Response: "ok"}

	_, err := ask(context.Background(), Reasoning{Client: mock}, "system", "user")
	require.NoError(t, err)

	require.Len(t, mock.Temperatures, 1)
	assert.Equal(t, defaultTemperature, mock.Temperatures[0])
	assert.Equal(t, defaultMaxTokens, mock.TokenCaps[0])
}

func TestByNames(t *testing.T) {
	all, err := ByNames(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(All()))

	picked, err := ByNames([]string{" Email ", "company"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "email", picked[0].Name())
	assert.Equal(t, "company", picked[1].Name())

	_, err = ByNames([]string{"nonexistent"})
	assert.Error(t, err)
}
