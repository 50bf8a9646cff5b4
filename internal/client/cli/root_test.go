package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/socialhub/internal/testutil/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	out := capturePrintln(t)

	be := backend.New(t)
	seedUser(be)
	be.AddPost(backend.Post{Title: "Hi", Body: "x", Author: "Bruno"})

	a, buf := newTestApp(t, testConfig(t, be), lines("login", "ana@example.com", "secret", "feed", "quit"))

	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, "Welcome to SocialHub CLI (type 'help' for commands)", (*out)[0])
	assert.Contains(t, *out, "sh> (online) > ")
	assert.Contains(t, *out, "sh> (ana@example.com online) > ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
	assert.Contains(t, buf.String(), "Welcome, Ana!")
	assert.Contains(t, buf.String(), "Hi by Bruno")
	assert.Nil(t, a.closers)
}

func TestApp_RunKeepsSessionAcrossRestarts(t *testing.T) {
	capturePrintln(t)

	be := backend.New(t)
	seedUser(be)
	c := testConfig(t, be)

	first, _ := newTestApp(t, c, lines("login", "ana@example.com", "secret", "exit"))
	require.NoError(t, first.Run(context.Background()))

	second, _ := newTestApp(t, c, lines("exit"))
	assert.True(t, second.isLoggedIn())
	assert.Equal(t, "(ana@example.com )", second.getStatus())
}
