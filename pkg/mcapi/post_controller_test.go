package mcapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mcrel/pkg/mcdb/mcmodel"
	"github.com/materials-commons/mcrel/pkg/mcdb/stor"
	"github.com/materials-commons/mcrel/pkg/tutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEchoContext creates a test echo context for method and target with
// the given JSON body and path params.
func setupEchoContext(method, target string, body any, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	return c, rec
}

func seed(t *testing.T, stors *stor.Stors) (*mcmodel.User, *mcmodel.Post) {
	t.Helper()

	user, err := stors.UserStor.CreateUser(&mcmodel.User{Username: "user1"})
	require.NoError(t, err)

	post, err := stors.PostStor.CreatePost(&mcmodel.Post{Title: "first", Body: "my body", AuthorID: user.ID})
	require.NoError(t, err)

	_, err = stors.PostStor.AddCommentToPost(post.ID, &mcmodel.Comment{Body: "my comment", UserID: user.ID})
	require.NoError(t, err)

	return user, post
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetPost(t *testing.T) {
	stors := stor.NewGormStors(tutil.NewTestDB(t), 3)
	user, post := seed(t, stors)
	controller := NewPostController(stors.PostStor, 5)

	t.Run("Found", func(t *testing.T) {
		id := strconv.Itoa(post.ID)
		c, rec := setupEchoContext(http.MethodGet, "/posts/"+id, nil, map[string]string{"id": id})
		require.NoError(t, controller.GetPost(c))
		require.Equal(t, http.StatusOK, rec.Code)

		results := decodeBody(t, rec)["results"].(map[string]any)
		assert.Equal(t, "my body", results["body"])
		assert.Equal(t, "/posts/"+id, results["href"])
		assert.Equal(t, map[string]any{"href": "/users/" + strconv.Itoa(user.ID)}, results["author"])

		comments := results["comments"].([]any)
		require.Len(t, comments, 1)
		assert.Equal(t, "user1", comments[0].(map[string]any)["user"].(map[string]any)["username"])
	})

	t.Run("NotFound", func(t *testing.T) {
		c, rec := setupEchoContext(http.MethodGet, "/posts/999", nil, map[string]string{"id": "999"})
		require.NoError(t, controller.GetPost(c))
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "post not found", decodeBody(t, rec)["message"])
	})

	t.Run("BadID", func(t *testing.T) {
		c, _ := setupEchoContext(http.MethodGet, "/posts/abc", nil, map[string]string{"id": "abc"})
		err := controller.GetPost(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestGetPostComments(t *testing.T) {
	stors := stor.NewGormStors(tutil.NewTestDB(t), 3)
	_, post := seed(t, stors)
	controller := NewPostController(stors.PostStor, 5)

	id := strconv.Itoa(post.ID)
	c, rec := setupEchoContext(http.MethodGet, "/posts/"+id+"/comments", nil, map[string]string{"id": id})
	require.NoError(t, controller.GetPostComments(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "/posts/"+id+"/comments", body["href"])
	require.Len(t, body["results"], 1)
}

func TestSavePost(t *testing.T) {
	stors := stor.NewGormStors(tutil.NewTestDB(t), 3)
	_, post := seed(t, stors)
	controller := NewPostController(stors.PostStor, 5)
	id := strconv.Itoa(post.ID)

	t.Run("Update", func(t *testing.T) {
		c, rec := setupEchoContext(http.MethodPut, "/posts/"+id,
			map[string]any{"id": post.ID, "title": "first", "body": "a longer body"},
			map[string]string{"id": id})
		require.NoError(t, controller.UpdatePost(c))

		var resp SaveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Meta.Success)
		assert.Equal(t, "a longer body", resp.Result["body"])
	})

	t.Run("TooShort", func(t *testing.T) {
		c, rec := setupEchoContext(http.MethodPut, "/posts/"+id,
			map[string]any{"title": "first", "body": "abc"},
			map[string]string{"id": id})
		require.NoError(t, controller.UpdatePost(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SaveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Meta.Success)
		assert.Equal(t, map[string]string{"body": "too short"}, resp.Meta.ValidationError)
	})

	t.Run("UnknownPost", func(t *testing.T) {
		c, rec := setupEchoContext(http.MethodPut, "/posts/999",
			map[string]any{"title": "x", "body": "long enough"},
			map[string]string{"id": "999"})
		require.NoError(t, controller.UpdatePost(c))

		var resp SaveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Meta.Success)
		assert.Equal(t, "post not found", resp.Meta.Message)
		assert.Equal(t, "error", resp.Meta.MessageClass)
	})

	t.Run("Create", func(t *testing.T) {
		c, rec := setupEchoContext(http.MethodPost, "/posts",
			map[string]any{"title": "second post", "body": "hello there"}, nil)
		require.NoError(t, controller.CreatePost(c))

		var resp SaveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Meta.Success)
		assert.Equal(t, "second-post", resp.Result["slug"])
		assert.NotEqual(t, float64(post.ID), resp.Result["id"])
	})
}

func TestGetUser(t *testing.T) {
	stors := stor.NewGormStors(tutil.NewTestDB(t), 3)
	user, _ := seed(t, stors)
	controller := NewUserController(stors.UserStor)

	id := strconv.Itoa(user.ID)
	c, rec := setupEchoContext(http.MethodGet, "/users/"+id, nil, map[string]string{"id": id})
	require.NoError(t, controller.GetUser(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user1", decodeBody(t, rec)["results"].(map[string]any)["username"])

	c, rec = setupEchoContext(http.MethodGet, "/users/999", nil, map[string]string{"id": "999"})
	require.NoError(t, controller.GetUser(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
