package model_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/materials-commons/mcrel/pkg/kinds"
	"github.com/materials-commons/mcrel/pkg/model"
	"github.com/stretchr/testify/require"
)

func saveResponse(meta map[string]any, result any) map[string]any {
	return map[string]any{"meta": meta, "result": result}
}

func TestSave(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t, kinds.Post, nil)
	require.NoError(t, m.Set(postData))
	log := newEventLog(m)

	f.transport.SetResponse(saveResponse(map[string]any{"success": true}, postData))
	require.NoError(t, m.Save(context.Background()))
	require.Equal(t, 1, log.count(model.EventLoad))
	require.True(t, m.Fetched())

	req := f.transport.LastCall()
	require.Equal(t, http.MethodPut, req.Method)
	require.Equal(t, "/posts/1", req.URL)
	require.Equal(t, "my body", req.Body.(model.Attrs)["body"])

	f.transport.SetResponse(saveResponse(map[string]any{"success": false, "message": "error message"}, nil))
	err := m.Save(context.Background())
	require.ErrorIs(t, err, model.ErrInvalid)
	var serr *model.SaveError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "error message", serr.Message)
	require.Equal(t, 1, log.count(model.EventInvalid))
	require.Equal(t, 1, log.count(model.EventLoad))
	require.Equal(t, "error message", m.Invalid())
	require.Equal(t, "my body", m.Get("body"))

	fields := map[string]any{"body": "too short"}
	f.transport.SetResponse(saveResponse(map[string]any{"success": false, "validationError": fields}, nil))
	err = m.Save(context.Background())
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, map[string]string{"body": "too short"}, verr.Fields)
	require.Equal(t, 2, log.count(model.EventInvalid))
	require.Equal(t, map[string]string{"body": "too short"}, m.Invalid())

	ev, ok := log.last(model.EventInvalid)
	require.True(t, ok)
	require.Equal(t, map[string]string{"body": "too short"}, ev.Data)

	f.transport.SetResponse(saveResponse(map[string]any{"success": true}, model.Attrs{"id": 1, "body": "longer body"}))
	require.NoError(t, m.Save(context.Background()))
	require.Nil(t, m.Invalid())
	require.Equal(t, 2, log.count(model.EventLoad))
	require.Equal(t, "longer body", m.Get("body"))
}

func TestSaveNewModelPosts(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t, kinds.Post, model.Attrs{"body": "a new post"})
	require.True(t, m.IsNew())

	f.transport.SetResponse(saveResponse(map[string]any{"success": true}, model.Attrs{"id": 9, "body": "a new post"}))
	require.NoError(t, m.Save(context.Background()))

	req := f.transport.LastCall()
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/posts", req.URL)
	require.False(t, m.IsNew())
	require.Equal(t, "/posts/9", m.URL())
}

func TestSaveExcludesViewAttrs(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t, "postWithViewState", model.Attrs{"id": 1, "tab": "detail", "body": "b"})

	f.transport.SetResponse(saveResponse(map[string]any{"success": true}, nil))
	require.NoError(t, m.Save(context.Background()))

	body := f.transport.LastCall().Body.(model.Attrs)
	require.NotContains(t, body, "tab")
	require.Equal(t, "b", body["body"])
}

func TestSaveTransportError(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t, kinds.Post, postData)
	log := newEventLog(m)

	f.transport.SetError(&model.TransportError{Status: http.StatusBadGateway})
	require.ErrorIs(t, m.Save(context.Background()), model.ErrTransport)
	require.Equal(t, 1, log.count(model.EventError))
	require.Equal(t, 0, log.count(model.EventInvalid))
}

func TestSaveBadResponse(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t, kinds.Post, postData)

	f.transport.SetResponse(map[string]any{"result": postData})
	require.ErrorIs(t, m.Save(context.Background()), model.ErrBadPayload)
}

func TestSaveWithoutURL(t *testing.T) {
	f := newFixture(t)
	f.registry.MustExtend(kinds.Post, "rootless", func(def *model.KindDef) { def.URLRoot = "" })
	m := f.newModel(t, "rootless", postData)

	require.ErrorIs(t, m.Save(context.Background()), model.ErrNoURL)
	require.Equal(t, 0, f.transport.CallCount())
}
