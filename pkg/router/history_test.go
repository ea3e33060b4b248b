package router

import (
	"testing"

	"github.com/materials-commons/mcrel/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestHistoryPushReplaceBack(t *testing.T) {
	h := NewHistory()
	require.Equal(t, "", h.Current())

	require.NoError(t, h.NavigateWithQueryParams("/posts/1", model.NavigateOptions{}))
	require.NoError(t, h.NavigateWithQueryParams("/posts/2", model.NavigateOptions{}))
	require.NoError(t, h.NavigateWithQueryParams("/posts/2?tab=detail", model.NavigateOptions{Replace: true}))

	require.Equal(t, []string{"/posts/1", "/posts/2?tab=detail"}, h.Entries())
	require.Equal(t, "/posts/1", h.Back())
	require.Equal(t, "", h.Back())
	require.Equal(t, "", h.Back())
}

func TestReplaceOnEmptyHistoryPushes(t *testing.T) {
	h := NewHistory()
	require.NoError(t, h.NavigateWithQueryParams("/posts/1", model.NavigateOptions{Replace: true}))
	require.Equal(t, "/posts/1", h.Current())
}
