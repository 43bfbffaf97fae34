package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ladle"
	"github.com/aretw0/ladle/internal/cli"
	"github.com/aretw0/ladle/pkg/domain"
)

func newChatEngine(t *testing.T) *ladle.Engine {
	t.Helper()

	engine, err := ladle.New()
	require.NoError(t, err)
	require.NoError(t, engine.AddRecipe(context.Background(), &domain.Recipe{
		ID:    "cookies",
		Title: "Cookies",
		Steps: []domain.Step{
			{Index: 1, Text: "Preheat the oven"},
			{Index: 2, Text: "Bake"},
		},
	}))
	return engine
}

func TestRunChat_WalkAndQuit(t *testing.T) {
	engine := newChatEngine(t)
	var out bytes.Buffer

	err := cli.RunChat(context.Background(), engine, cli.ChatOptions{
		RecipeID: "cookies",
		Plain:    true,
		In:       strings.NewReader("start\nnext\nquit\n"),
		Out:      &out,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Walking through: Cookies (2 steps)")
	assert.Contains(t, out.String(), "Step 1: Preheat the oven")
	assert.Contains(t, out.String(), "Step 2: Bake")
	assert.Contains(t, out.String(), "Bye!")

	// The chat session is ended on exit.
	ids, err := engine.Sessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRunChat_SingleBookRecipeIsImplicit(t *testing.T) {
	engine := newChatEngine(t)
	var out bytes.Buffer

	err := cli.RunChat(context.Background(), engine, cli.ChatOptions{
		Plain: true,
		In:    strings.NewReader("q\n"),
		Out:   &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Cookies")
}

func TestRunChat_NoRecipes(t *testing.T) {
	engine, err := ladle.New()
	require.NoError(t, err)

	err = cli.RunChat(context.Background(), engine, cli.ChatOptions{
		Plain: true,
		In:    strings.NewReader(""),
		Out:   &bytes.Buffer{},
	})
	assert.Error(t, err)
}
