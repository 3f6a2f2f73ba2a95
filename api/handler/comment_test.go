package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/projectpulse/backend/domain"
	commentUC "github.com/projectpulse/backend/usecase/comment"
)

func newCommentFixture() (*fakeCommentRepo, *fakeTaskRepo, *CommentHandler) {
	comments := newFakeCommentRepo()
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo(domain.User{
		UserID:    5,
		Username:  "carol",
		SubjectID: "auth0|carol",
	})
	h := NewCommentHandler(commentUC.New(comments, tasks, users, nil), nil, nil)
	return comments, tasks, h
}

func TestAddComment(t *testing.T) {
	comments, tasks, h := newCommentFixture()
	tasks.seed(domain.Task{Title: "t", ProjectID: 1})

	body := []byte(`{"userSub":"auth0|carol","text":"looks good"}`)
	ctx := newRequestCtx(http.MethodPost, "/api/tasks/1/comments", body, map[string]string{"taskId": "1"})
	h.AddComment(ctx)

	if ctx.Response.StatusCode() != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	env := decodeEnvelope(t, ctx)
	var created domain.Comment
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.Text != "looks good" || created.TaskID != 1 || created.UserID != 5 {
		t.Fatalf("created = %+v", created)
	}
	if comments.count() != 1 {
		t.Fatalf("stored comments = %d, want 1", comments.count())
	}
}

func TestAddCommentUnknownSubject(t *testing.T) {
	comments, tasks, h := newCommentFixture()
	tasks.seed(domain.Task{Title: "t", ProjectID: 1})

	body := []byte(`{"userSub":"auth0|ghost","text":"hi"}`)
	ctx := newRequestCtx(http.MethodPost, "/api/tasks/1/comments", body, map[string]string{"taskId": "1"})
	h.AddComment(ctx)

	if ctx.Response.StatusCode() != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", ctx.Response.StatusCode())
	}
	if comments.count() != 0 {
		t.Fatal("no comment row may be written for an unknown subject")
	}
}

func TestAddCommentUnknownTask(t *testing.T) {
	comments, _, h := newCommentFixture()

	body := []byte(`{"userSub":"auth0|carol","text":"hi"}`)
	ctx := newRequestCtx(http.MethodPost, "/api/tasks/9/comments", body, map[string]string{"taskId": "9"})
	h.AddComment(ctx)

	if ctx.Response.StatusCode() != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", ctx.Response.StatusCode())
	}
	if comments.count() != 0 {
		t.Fatal("no comment row may be written for an unknown task")
	}
}

func TestAddCommentMissingFields(t *testing.T) {
	_, tasks, h := newCommentFixture()
	tasks.seed(domain.Task{Title: "t", ProjectID: 1})

	ctx := newRequestCtx(http.MethodPost, "/api/tasks/1/comments",
		[]byte(`{"userSub":"","text":""}`), map[string]string{"taskId": "1"})
	h.AddComment(ctx)

	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", ctx.Response.StatusCode())
	}
}

func TestGetCommentsEmpty(t *testing.T) {
	_, tasks, h := newCommentFixture()
	tasks.seed(domain.Task{Title: "t", ProjectID: 1})

	ctx := newRequestCtx(http.MethodGet, "/api/tasks/1/comments", nil, map[string]string{"taskId": "1"})
	h.GetComments(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d, want 200", ctx.Response.StatusCode())
	}
	env := decodeEnvelope(t, ctx)
	var comments []domain.Comment
	if err := json.Unmarshal(env.Data, &comments); err != nil {
		t.Fatal(err)
	}
	if len(comments) != 0 {
		t.Fatalf("comments = %d, want 0", len(comments))
	}
}
