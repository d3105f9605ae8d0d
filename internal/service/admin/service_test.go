package admin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/admin"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/email"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	user.UserRepository
	users   map[string]user.User
	deleted []string
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	newUser.ID = "user-" + newUser.Email
	f.users[newUser.ID] = newUser
	return newUser, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAdminRepo struct {
	admins []admin.Admin
}

func (f *fakeAdminRepo) List(ctx context.Context) ([]admin.Admin, error) {
	return f.admins, nil
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id string) (admin.Admin, error) {
	for _, a := range f.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return admin.Admin{}, admin.ErrAdminNotFound
}

func (f *fakeAdminRepo) GetByUserID(ctx context.Context, userID string) (admin.Admin, error) {
	for _, a := range f.admins {
		if a.UserID == userID {
			return a, nil
		}
	}
	return admin.Admin{}, admin.ErrAdminNotFound
}

func (f *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (admin.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return admin.Admin{}, admin.ErrAdminNotFound
}

func (f *fakeAdminRepo) Create(ctx context.Context, newAdmin admin.Admin) (admin.Admin, error) {
	newAdmin.ID = "admin-" + newAdmin.Email
	newAdmin.CreatedAt = time.Now()
	f.admins = append(f.admins, newAdmin)
	return newAdmin, nil
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeEmail) SendAdminWelcome(to, name, loginURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeEmail) SendDailySummary(to string, digest email.DailyDigest) error {
	return nil
}

func (f *fakeEmail) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func ctxWithAdmin(t *testing.T, adminID string) context.Context {
	t.Helper()
	token := jwt.New()
	require.NoError(t, token.Set("admin_id", adminID))
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService() (*AdminServiceImpl, *fakeUserRepo, *fakeAdminRepo, *fakeEmail) {
	users := &fakeUserRepo{users: map[string]user.User{}}
	admins := &fakeAdminRepo{}
	mail := &fakeEmail{}
	svc := NewAdminService(fakeTx{}, admins, users, mail, "http://localhost:3000/login").(*AdminServiceImpl)
	return svc, users, admins, mail
}

func TestCreateAdmin_Success(t *testing.T) {
	svc, users, _, mail := newTestService()

	resp, err := svc.CreateAdmin(context.Background(), admin.CreateAdminRequest{
		Name:     " Jane Admin ",
		Email:    "Jane@Example.com",
		Password: "supersecret",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Admin", resp.Name)
	assert.Equal(t, "jane@example.com", resp.Email)

	created := users.users[resp.UserID]
	require.NotNil(t, created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte("supersecret")))

	assert.Eventually(t, func() bool { return mail.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestCreateAdmin_DuplicateEmail(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.users["u1"] = user.User{ID: "u1", Email: "jane@example.com"}

	_, err := svc.CreateAdmin(context.Background(), admin.CreateAdminRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "supersecret",
	})

	assert.ErrorIs(t, err, admin.ErrAdminEmailExists)
}

func TestCreateAdmin_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateAdmin(context.Background(), admin.CreateAdminRequest{Email: "nope"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "password")
}

func TestDeleteAdmin(t *testing.T) {
	svc, users, admins, _ := newTestService()
	users.users["u1"] = user.User{ID: "u1"}
	users.users["u2"] = user.User{ID: "u2"}
	admins.admins = []admin.Admin{{ID: "a1", UserID: "u1"}, {ID: "a2", UserID: "u2"}}

	ctx := ctxWithAdmin(t, "a1")

	assert.ErrorIs(t, svc.DeleteAdmin(ctx, "a1"), admin.ErrCannotDeleteSelf)
	assert.ErrorIs(t, svc.DeleteAdmin(ctx, "missing"), admin.ErrAdminNotFound)

	require.NoError(t, svc.DeleteAdmin(ctx, "a2"))
	assert.Equal(t, []string{"u2"}, users.deleted)
}

func TestDeleteAdmin_RequiresClaims(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.DeleteAdmin(context.Background(), "a2")

	assert.ErrorIs(t, err, admin.ErrNotAdmin)
}

func TestGetCurrentAdmin(t *testing.T) {
	svc, _, admins, _ := newTestService()
	admins.admins = []admin.Admin{{ID: "a1", UserID: "u1", Name: "Jane", Email: "jane@example.com"}}

	resp, err := svc.GetCurrentAdmin(ctxWithAdmin(t, "a1"))

	require.NoError(t, err)
	assert.Equal(t, "Jane", resp.Name)
}

func TestListAdmins(t *testing.T) {
	svc, _, admins, _ := newTestService()
	admins.admins = []admin.Admin{{ID: "a2", Name: "B"}, {ID: "a1", Name: "A"}}

	resp, err := svc.ListAdmins(context.Background())

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "a2", resp[0].ID)
}
