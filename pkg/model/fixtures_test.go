package model_test

import (
	"sync"
	"testing"
	"time"

	"github.com/materials-commons/mcrel/pkg/kinds"
	"github.com/materials-commons/mcrel/pkg/model"
	"github.com/materials-commons/mcrel/pkg/transport"
	"github.com/stretchr/testify/require"
)

var (
	postData = model.Attrs{"id": 1, "body": "my body"}

	postDataWithRelated = model.Attrs{
		"id":   1,
		"body": "my body",
		"comments": []any{
			map[string]any{"id": 5, "body": "my comment", "user": map[string]any{"id": 7, "username": "user1"}},
			map[string]any{"id": 6, "body": "comment 2", "user": map[string]any{"id": 8, "username": "user2"}},
		},
	}

	postDataWithRelatedHrefs = model.Attrs{
		"id":       1,
		"body":     "my body",
		"author":   map[string]any{"href": "/users/7"},
		"comments": map[string]any{"href": "/comments"},
	}

	postDataWithCommentsWithAttributes = model.Attrs{
		"id": 1,
		"comments": map[string]any{
			"href":    "/comments",
			"results": []any{map[string]any{"id": 5}, map[string]any{"id": 6}},
		},
	}

	postDataWithEmptyComments = model.Attrs{"id": 1, "body": "my body", "comments": []any{}}

	postWithViewState = model.Attrs{"id": 1, "href": "/posts/1", "tab": "detail"}

	postCircularData = model.Attrs{
		"id": 1,
		"comments": []any{
			map[string]any{"id": 5, "post": map[string]any{"id": 1}},
			map[string]any{"id": 6},
		},
	}
)

type fixture struct {
	registry  *model.Registry
	transport *transport.MockTransport
	client    *model.Client
}

// newFixture registers the post, comment and user kinds plus the variants the
// model tests need.
func newFixture(t *testing.T, opts ...model.ClientOption) *fixture {
	t.Helper()

	r := model.NewRegistry()
	require.NoError(t, kinds.Register(r))

	withComments := func(rel model.Relationship) func(def *model.KindDef) {
		return func(def *model.KindDef) {
			rel.Kind = kinds.Comment
			rel.Many = true
			rel.Reverse = "post"
			def.Relationships["comments"] = rel
		}
	}

	r.MustExtend(kinds.Post, "postAutoload", withComments(model.Relationship{Remote: model.RemoteAutoload}))
	r.MustExtend(kinds.Post, "postManual", withComments(model.Relationship{Remote: model.RemoteManual}))
	r.MustExtend(kinds.Post, "postLoadOnShow", withComments(model.Relationship{Remote: model.RemoteLoadOnShow}))
	r.MustExtend(kinds.Post, "postForce", withComments(model.Relationship{ForceCreate: true}))
	r.MustExtend(kinds.Post, "postBadRemote", withComments(model.Relationship{Remote: "foo"}))

	r.MustExtend(kinds.Comment, "commentWithPost", func(def *model.KindDef) {
		def.Relationships["post"] = model.Relationship{Kind: "postCircular"}
	})
	r.MustExtend(kinds.Post, "postCircular", func(def *model.KindDef) {
		def.Relationships["comments"] = model.Relationship{Kind: "commentWithPost", Many: true, Reverse: "post"}
	})

	r.MustExtend(kinds.Post, "postRemoteAuthor", func(def *model.KindDef) {
		def.Relationships["author"] = model.Relationship{Kind: kinds.User, Remote: model.RemoteAutoload}
	})

	r.MustExtend(kinds.Post, "postWithQuery", func(def *model.KindDef) {
		def.QueryParams = func(m *model.Model) map[string]string {
			return map[string]string{"foo": "1"}
		}
	})
	r.MustExtend(kinds.Post, "postWithViewState", func(def *model.KindDef) {
		def.ViewAttrs = []string{"tab", "filter"}
	})

	mt := transport.NewMockTransport()
	return &fixture{
		registry:  r,
		transport: mt,
		client:    model.NewClient(r, mt, opts...),
	}
}

func (f *fixture) newModel(t *testing.T, kind string, attrs model.Attrs) *model.Model {
	t.Helper()
	m, err := f.client.NewModel(kind, attrs)
	require.NoError(t, err)
	return m
}

// waitStarted waits until the transport has received a request for url.
func (f *fixture) waitStarted(t *testing.T, url string) {
	t.Helper()
	for {
		select {
		case req := <-f.transport.Started():
			if req.URL == url {
				return
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("no request for %s reached the transport", url)
		}
	}
}

// eventLog records every event of the nodes it watches.
type eventLog struct {
	mu     sync.Mutex
	events []model.Event
}

func newEventLog(nodes ...model.Node) *eventLog {
	l := &eventLog{}
	for _, n := range nodes {
		n.On(model.EventAll, l.record)
	}
	return l
}

func (l *eventLog) record(ev model.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Name == name {
			n++
		}
	}
	return n
}

// emitters returns the emitters of name events in the order they fired.
func (l *eventLog) emitters(name string) []model.Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.Node
	for _, ev := range l.events {
		if ev.Name == name {
			out = append(out, ev.Emitter)
		}
	}
	return out
}

func (l *eventLog) last(name string) (model.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Name == name {
			return l.events[i], true
		}
	}
	return model.Event{}, false
}
