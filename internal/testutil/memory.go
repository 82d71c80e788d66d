package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ugmi/ugmi/internal/model"
	"github.com/ugmi/ugmi/internal/repository"
)

// MemoryStore is an in-memory stand-in for repository.Repository.
// It enforces the same uniqueness rules and returns the same sentinels.
type MemoryStore struct {
	mu       sync.Mutex
	now      func() time.Time
	users    map[int64]*model.User
	marks    map[int64]*model.Mark
	comments []model.Comment
	nextUser int64
	nextMark int64
	nextComm int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:   time.Now,
		users: make(map[int64]*model.User),
		marks: make(map[int64]*model.Mark),
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	if u.APIToken != nil {
		token := *u.APIToken
		c.APIToken = &token
	}
	if u.TokenExpiresAt != nil {
		exp := *u.TokenExpiresAt
		c.TokenExpiresAt = &exp
	}
	return &c
}

// CreateUser stores user and assigns its ID.
func (s *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}

	s.nextUser++
	user.ID = s.nextUser
	user.CreatedAt = s.now().UTC()
	s.users[user.ID] = copyUser(user)
	return nil
}

// GetUserByID returns a copy of the user with id.
func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetUserByUsername returns a copy of the user with username.
func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetUserByToken returns a copy of the user holding token.
func (s *MemoryStore) GetUserByToken(_ context.Context, token string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.APIToken != nil && *u.APIToken == token {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// UsernameExists reports whether username is taken.
func (s *MemoryStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.GetUserByUsername(ctx, username)
	return err == nil, nil
}

// EmailExists reports whether email is registered.
func (s *MemoryStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// SetUserToken replaces the token pair of user userID.
func (s *MemoryStore) SetUserToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for id, other := range s.users {
		if id != userID && other.APIToken != nil && *other.APIToken == token {
			return repository.ErrTokenConflict
		}
	}
	u.SetToken(token, expiresAt)
	return nil
}

// PromoteAdmins sets the admin role on users whose email is in emails.
func (s *MemoryStore) PromoteAdmins(_ context.Context, emails []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[e] = struct{}{}
	}

	var n int64
	for _, u := range s.users {
		if _, ok := set[u.Email]; ok && u.Role != model.RoleAdmin {
			u.Role = model.RoleAdmin
			n++
		}
	}
	return n, nil
}

// AddMark inserts a mark with the given title and returns its ID.
func (s *MemoryStore) AddMark(title string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMark++
	s.marks[s.nextMark] = &model.Mark{ID: s.nextMark, Title: title, CreatedAt: s.now().UTC()}
	return s.nextMark
}

// CreateMark stores mark and assigns its ID.
func (s *MemoryStore) CreateMark(_ context.Context, mark *model.Mark) error {
	mark.ID = s.AddMark(mark.Title)
	return nil
}

// GetMarkByID returns the mark with id.
func (s *MemoryStore) GetMarkByID(_ context.Context, id int64) (*model.Mark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.marks[id]
	if !ok {
		return nil, repository.ErrMarkNotFound
	}
	c := *m
	return &c, nil
}

// MarkExists reports whether a mark with id exists.
func (s *MemoryStore) MarkExists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.marks[id]
	return ok, nil
}

// CreateComment appends comment. Unknown marks yield ErrMarkNotFound.
func (s *MemoryStore) CreateComment(_ context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.marks[comment.MarkID]; !ok {
		return repository.ErrMarkNotFound
	}
	if _, ok := s.users[comment.UserID]; !ok {
		return repository.ErrUserNotFound
	}

	s.nextComm++
	comment.ID = s.nextComm
	comment.CreatedAt = s.now().UTC()
	s.comments = append(s.comments, *comment)
	return nil
}

// CountComments returns the number of comments on mark markID.
func (s *MemoryStore) CountComments(_ context.Context, markID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.commentsOf(markID))), nil
}

// ListComments returns up to limit comments of markID in insertion order,
// skipping the first offset.
func (s *MemoryStore) ListComments(_ context.Context, markID, offset, limit int64) ([]model.CommentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.views(s.commentsOf(markID), offset, limit), nil
}

// CommentPage counts the comments of markID and returns the window chosen
// by window, all under one lock.
func (s *MemoryStore) CommentPage(_ context.Context, markID int64, window repository.PageWindow) (int64, []model.CommentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := s.commentsOf(markID)
	total := int64(len(matching))

	offset, limit, err := window(total)
	if err != nil {
		return 0, nil, err
	}
	return total, s.views(matching, offset, limit), nil
}

func (s *MemoryStore) commentsOf(markID int64) []model.Comment {
	var matching []model.Comment
	for _, c := range s.comments {
		if c.MarkID == markID {
			matching = append(matching, c)
		}
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].ID < matching[j].ID })
	return matching
}

func (s *MemoryStore) views(matching []model.Comment, offset, limit int64) []model.CommentView {
	views := []model.CommentView{}
	for i := offset; i < int64(len(matching)) && i-offset < limit; i++ {
		c := matching[i]
		views = append(views, model.CommentView{
			Body:       c.Body,
			AuthorName: s.users[c.UserID].Name,
			Stars:      c.Stars,
		})
	}
	return views
}
