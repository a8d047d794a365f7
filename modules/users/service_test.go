package users_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/newsdesk/modules/users"
	"github.com/dmitrymomot/newsdesk/pkg/email"
	"github.com/dmitrymomot/newsdesk/storage"
	authsvc "github.com/dmitrymomot/newsdesk/svc/auth"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*storage.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*storage.User)}
}

func (f *fakeUserStore) List(_ context.Context, opts storage.ListUsersOptions) ([]storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]storage.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	if opts.Skip > 0 {
		if opts.Skip >= int64(len(out)) {
			out = nil
		} else {
			out = out[opts.Skip:]
		}
	}
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*storage.User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, storage.ErrInvalidID
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) FindByResetToken(_ context.Context, token string, now time.Time) (*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) Insert(_ context.Context, user *storage.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return storage.ErrDuplicateEmail
		}
	}
	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID.Hex()] = &copied
	return nil
}

func (f *fakeUserStore) SetResetToken(_ context.Context, id string, token string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.ResetToken = &token
	u.ResetTokenExpiry = &expiry
	return nil
}

func (f *fakeUserStore) ConsumeResetToken(_ context.Context, token string, passwordHash string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			u.Password = passwordHash
			u.ResetToken = nil
			u.ResetTokenExpiry = nil
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeUserStore) Update(_ context.Context, id string, set bson.M) error {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return storage.ErrInvalidID
	}
	if len(set) == 0 {
		return storage.ErrEmptyFilter
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	if email, ok := set["email"].(string); ok {
		for otherID, other := range f.users {
			if otherID != id && other.Email == email {
				return storage.ErrDuplicateEmail
			}
		}
		u.Email = email
	}
	if name, ok := set["name"].(string); ok {
		u.Name = name
	}
	if age, ok := set["age"].(int); ok {
		u.Age = age
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return storage.ErrInvalidID
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeMailer struct{}

func (fakeMailer) SendEmail(context.Context, email.SendEmailParams) error { return nil }

func newService(t *testing.T) (http.Handler, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	auth := authsvc.NewService(store, fakeMailer{}, "http://localhost:8080")
	svc := users.NewService(store, auth, nil)
	return svc.Handle(), store
}

func seedUser(t *testing.T, store *fakeUserStore, name, email string) *storage.User {
	t.Helper()
	user := &storage.User{Name: name, Email: email, Password: "x", Role: "admin", Age: 30}
	require.NoError(t, store.Insert(context.Background(), user))
	return user
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("creates with admin role and no password in body", func(t *testing.T) {
		t.Parallel()
		h, _ := newService(t)

		rec := doJSON(t, h, http.MethodPost, "/", map[string]any{
			"name": "Jane", "email": "jane@example.com", "password": "secret1", "age": 28,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"role":"admin"`)
		assert.NotContains(t, rec.Body.String(), "secret1")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		seedUser(t, store, "Jane", "jane@example.com")

		rec := doJSON(t, h, http.MethodPost, "/", map[string]any{
			"name": "Other", "email": "jane@example.com", "password": "secret1", "age": 40,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		t.Parallel()
		h, _ := newService(t)

		rec := doJSON(t, h, http.MethodPost, "/", map[string]any{
			"name": "Jane", "email": "not-an-email", "password": "secret1", "age": 28,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	t.Run("returns seeded users", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		seedUser(t, store, "Jane", "jane@example.com")
		seedUser(t, store, "John", "john@example.com")

		rec := doJSON(t, h, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []storage.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("limit applies", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		seedUser(t, store, "Jane", "jane@example.com")
		seedUser(t, store, "John", "john@example.com")

		rec := doJSON(t, h, http.MethodGet, "/?limit=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []storage.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 1)
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		t.Parallel()
		h, _ := newService(t)
		rec := doJSON(t, h, http.MethodGet, "/?limit=banana", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		t.Parallel()
		h, _ := newService(t)
		rec := doJSON(t, h, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		u := seedUser(t, store, "Jane", "jane@example.com")

		rec := doJSON(t, h, http.MethodGet, "/"+u.ID.Hex(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "jane@example.com")
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		t.Parallel()
		h, _ := newService(t)
		rec := doJSON(t, h, http.MethodGet, "/"+bson.NewObjectID().Hex(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id rejected", func(t *testing.T) {
		t.Parallel()
		h, _ := newService(t)
		rec := doJSON(t, h, http.MethodGet, "/nope", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	t.Run("partial update returns fresh document", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		u := seedUser(t, store, "Jane", "jane@example.com")

		rec := doJSON(t, h, http.MethodPut, "/"+u.ID.Hex(), map[string]any{"name": "  Jane   Q  "})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Jane Q"`)
		assert.Contains(t, rec.Body.String(), "jane@example.com")
	})

	t.Run("email is normalized and validated", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		u := seedUser(t, store, "Jane", "jane@example.com")

		rec := doJSON(t, h, http.MethodPut, "/"+u.ID.Hex(), map[string]any{"email": "  JANE.NEW@Example.COM "})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "jane.new@example.com")

		rec = doJSON(t, h, http.MethodPut, "/"+u.ID.Hex(), map[string]any{"email": "broken"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("email collision conflicts", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		seedUser(t, store, "John", "john@example.com")
		u := seedUser(t, store, "Jane", "jane@example.com")

		rec := doJSON(t, h, http.MethodPut, "/"+u.ID.Hex(), map[string]any{"email": "john@example.com"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("age out of range rejected", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		u := seedUser(t, store, "Jane", "jane@example.com")

		rec := doJSON(t, h, http.MethodPut, "/"+u.ID.Hex(), map[string]any{"age": 200})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		u := seedUser(t, store, "Jane", "jane@example.com")

		rec := doJSON(t, h, http.MethodPut, "/"+u.ID.Hex(), map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		u := seedUser(t, store, "Jane", "jane@example.com")

		req := httptest.NewRequest(http.MethodPut, "/"+u.ID.Hex(), strings.NewReader(`{"role":"superadmin"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("deletes and is gone", func(t *testing.T) {
		t.Parallel()
		h, store := newService(t)
		u := seedUser(t, store, "Jane", "jane@example.com")

		rec := doJSON(t, h, http.MethodDelete, "/"+u.ID.Hex(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, h, http.MethodGet, "/"+u.ID.Hex(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		t.Parallel()
		h, _ := newService(t)
		rec := doJSON(t, h, http.MethodDelete, "/"+bson.NewObjectID().Hex(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
