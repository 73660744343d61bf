package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigledger/gigledger/internal/shared"
)

type fakeUserStore struct {
	users  map[string]*User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*User{}, nextID: 1}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, email, name, passwordHash string) (*User, error) {
	if _, ok := f.users[email]; ok {
		return nil, shared.ErrEmailTaken
	}
	user := &User{ID: f.nextID, Email: email, Name: name, Plan: "free", PasswordHash: passwordHash}
	f.users[email] = user
	f.nextID++
	return user, nil
}

func (f *fakeUserStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UserByID(ctx context.Context, id int64) (*User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

type fakeNotifier struct {
	emails []string
}

func (f *fakeNotifier) EnqueueWelcome(ctx context.Context, email, name string) error {
	f.emails = append(f.emails, email)
	return nil
}

func newTestService(notifier WelcomeNotifier) (*Service, *fakeUserStore) {
	store := newFakeUserStore()
	return NewService(store, notifier, "test-secret", time.Hour), store
}

func TestRegisterHashesPasswordAndNotifies(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, store := newTestService(notifier)

	resp, err := svc.Register(context.Background(), RegisterInput{
		Email: "Maria@Example.com", Name: "Maria", Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "maria@example.com", resp.User.Email, "email is lowercased")

	stored := store.users["maria@example.com"]
	require.NotEqual(t, "correct horse", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
	require.Equal(t, []string{"maria@example.com"}, notifier.emails)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(nil)
	input := RegisterInput{Email: "a@b.com", Name: "A", Password: "password1"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrEmailTaken)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Name: "A", Password: "password1"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)

	userID, err := svc.VerifyToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, userID)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Name: "A", Password: "password1"})
	require.NoError(t, err)

	_, errWrong := svc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "nope-nope"})
	_, errUnknown := svc.Login(context.Background(), LoginInput{Email: "x@y.com", Password: "password1"})
	require.ErrorIs(t, errWrong, shared.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, shared.ErrInvalidCredentials)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc, _ := newTestService(nil)
	resp, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Name: "A", Password: "password1"})
	require.NoError(t, err)

	svc.WithNow(func() time.Time { return time.Now().Add(2 * time.Hour) })
	_, err = svc.VerifyToken(resp.Token)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.VerifyToken("not-a-token")
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestMiddlewarePutsUserInContext(t *testing.T) {
	svc, _ := newTestService(nil)
	resp, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Name: "A", Password: "password1"})
	require.NoError(t, err)

	var gotID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = shared.UserIDFromContext(r.Context())
	})
	handler := Middleware(svc)(next)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+resp.Token)
	handler.ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, resp.User.ID, gotID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
