package dto

import (
	"encoding/json"
	"testing"

	"github.com/ugmi/ugmi/internal/model"
)

func TestUserInfo_IDIsString(t *testing.T) {
	t.Parallel()

	info := UserInfo(&model.User{ID: 42, Username: "alice", Role: model.RoleAdmin})
	if info["id"] != "42" {
		t.Errorf("id = %#v, want \"42\"", info["id"])
	}
	if info["role"] != "admin" {
		t.Errorf("role = %#v, want admin", info["role"])
	}
}

func TestCommentPage_EmptyEncodesAsArray(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(CommentPage(0, 0, 0, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"cnt":0,"comments":[],"finish":0,"start":0}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestCommentItems_KeepsOrder(t *testing.T) {
	t.Parallel()

	items := CommentItems([]model.CommentView{
		{Body: "first", AuthorName: "A", Stars: 1},
		{Body: "second", AuthorName: "B", Stars: 5},
	})
	if len(items) != 2 || items[0].Body != "first" || items[1].Name != "B" || items[1].Stars != 5 {
		t.Errorf("unexpected items: %+v", items)
	}
}
