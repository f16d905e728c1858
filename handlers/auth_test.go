package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/nafood/nafood-backend-go/models"
)

type fakeUserStore struct {
	users  map[int64]models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]models.User{}}
}

func (s *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.nextID++
	now := time.Now()
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) Update(_ context.Context, id int64, fields bson.M) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "address":
			u.Address = v.(string)
		case "role":
			u.Role = v.(models.Role)
		case "active":
			u.Active = v.(bool)
		}
	}
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return &u, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

const registerBody = `{"name": "Nguyễn Văn A", "email": "a@example.com", "password": "secret123"}`

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	h := NewAuthHandler(store)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.RoleUser, got.Role, "registration never grants elevated roles")
	assert.True(t, got.Active)
	assert.NotZero(t, got.ID)
	assert.NotContains(t, rec.Body.String(), "password")

	// the stored hash verifies against the original password
	stored := store.users[got.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	h := NewAuthHandler(store)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newTestContext(t, http.MethodPost, "/api/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email đã được đăng ký", decodeError(t, rec))
}

func TestRegisterValidation(t *testing.T) {
	h := NewAuthHandler(newFakeUserStore())

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "missing name",
			body:    `{"email": "a@example.com", "password": "secret123"}`,
			message: "Vui lòng nhập họ tên",
		},
		{
			name:    "bad email",
			body:    `{"name": "A", "email": "not-an-email", "password": "secret123"}`,
			message: "Email không hợp lệ",
		},
		{
			name:    "short password",
			body:    `{"name": "A", "email": "a@example.com", "password": "abc"}`,
			message: "Mật khẩu phải có ít nhất 6 ký tự",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", tt.body, 0, "")
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec))
		})
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	store := newFakeUserStore()
	h := NewAuthHandler(store)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email": "a@example.com", "password": "secret123"}`, 0, "")
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@example.com", resp.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	store := newFakeUserStore()
	h := NewAuthHandler(store)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, body := range []string{
		`{"email": "a@example.com", "password": "wrong"}`,
		`{"email": "nobody@example.com", "password": "secret123"}`,
	} {
		c, rec = newTestContext(t, http.MethodPost, "/api/auth/login", body, 0, "")
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Email hoặc mật khẩu không đúng", decodeError(t, rec))
	}
}

func TestLoginLockedAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	store := newFakeUserStore()
	h := NewAuthHandler(store)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	_, err := store.Update(context.Background(), 1, bson.M{"active": false})
	require.NoError(t, err)

	c, rec = newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email": "a@example.com", "password": "secret123"}`, 0, "")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Tài khoản đã bị khóa", decodeError(t, rec))
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	store := newFakeUserStore()
	admin := models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, Active: true}
	require.NoError(t, store.Create(context.Background(), &admin))

	h := NewUserHandler(store)
	c, rec := newTestContext(t, http.MethodDelete, "/", "", admin.ID, models.RoleAdmin)
	c.SetPath("/api/users/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Không thể xóa tài khoản của chính bạn", decodeError(t, rec))
}
