package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue_booking/internal/app"
	"venue_booking/internal/app/apptest"
	"venue_booking/internal/domain"
)

func newAccounts(m *apptest.Store) (*app.AccountService, *memPictures) {
	pics := &memPictures{}
	return app.NewAccountService(m, plainHasher{}, fixedTokens{}, app.NewPictureService(pics, &seqNamer{})), pics
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newAccounts(apptest.NewStore())
	ctx := context.Background()

	tests := []struct {
		name string
		in   app.SignupInput
		want string
	}{
		{"missing name", app.SignupInput{Email: "a@b.co", Password: "x", ConfirmPassword: "x"}, "All fields are required"},
		{"blank email", app.SignupInput{Name: "A", Email: "  ", Password: "x", ConfirmPassword: "x"}, "All fields are required"},
		{"bad email", app.SignupInput{Name: "A", Email: "a@b", Password: "x", ConfirmPassword: "x"}, "Invalid email format"},
		{"mismatch", app.SignupInput{Name: "A", Email: "a@b.co", Password: "x", ConfirmPassword: "y"}, "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, domain.RoleUser, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalid)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestSignup_CreatesAndRejectsDuplicates(t *testing.T) {
	m := apptest.NewStore()
	svc, _ := newAccounts(m)
	ctx := context.Background()
	in := app.SignupInput{Name: " Ali ", Email: "ali@example.com", Password: "pw", ConfirmPassword: "pw", Phone: ptr(" ")}

	a, err := svc.Signup(ctx, domain.RoleUser, in)
	require.NoError(t, err)
	assert.Equal(t, "Ali", a.Name)
	assert.Nil(t, a.Phone)
	assert.Equal(t, "hashed:pw", m.Accounts[a.ID].PasswordHash)

	_, err = svc.Signup(ctx, domain.RoleUser, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "User already exists")

	// managers are a separate namespace
	_, err = svc.Signup(ctx, domain.RoleManager, in)
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	m := apptest.NewStore()
	svc, _ := newAccounts(m)
	ctx := context.Background()
	_, err := svc.Signup(ctx, domain.RoleManager, app.SignupInput{Name: "Inam", Email: "inam@example.com", Password: "pw", ConfirmPassword: "pw"})
	require.NoError(t, err)

	s, err := svc.Login(ctx, domain.RoleManager, "inam@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "token-manager", s.Token)
	assert.Equal(t, "Inam", s.Account.Name)

	_, err = svc.Login(ctx, domain.RoleManager, "inam@example.com", "nope")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.EqualError(t, err, "Incorrect password")

	_, err = svc.Login(ctx, domain.RoleManager, "", "pw")
	assert.EqualError(t, err, "Email and password are required")

	_, err = svc.Login(ctx, domain.RoleManager, "ghost@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "User not found")

	_, err = svc.Login(ctx, domain.RoleUser, "inam@example.com", "pw")
	assert.EqualError(t, err, "Email not found")
}

func TestUpdateProfile(t *testing.T) {
	m := apptest.NewStore()
	svc, pics := newAccounts(m)
	ctx := context.Background()
	a, err := svc.Signup(ctx, domain.RoleUser, app.SignupInput{Name: "Ali", Email: "ali@example.com", Password: "pw", ConfirmPassword: "pw"})
	require.NoError(t, err)
	p := domain.Principal{ID: a.ID, Role: domain.RoleUser}

	out, err := svc.UpdateProfile(ctx, p, app.ProfileUpdate{
		Name:     ptr("Ali Khan"),
		Email:    ptr(""),
		Password: ptr("new"),
		Picture:  upload("me.JPG", "jpeg-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ali Khan", out.Name)
	assert.Equal(t, "ali@example.com", out.Email)
	assert.Equal(t, "/profiles/pic1.jpg", *out.ProfilePic)
	assert.Equal(t, "hashed:new", m.Accounts[a.ID].PasswordHash)
	assert.Equal(t, "public/profiles/pic1.jpg", *m.Accounts[a.ID].ProfilePic)
	assert.Equal(t, []byte("jpeg-bytes"), pics.files["public/profiles/pic1.jpg"])

	_, err = svc.UpdateProfile(ctx, p, app.ProfileUpdate{Email: ptr("broken")})
	assert.EqualError(t, err, "Invalid email format")

	_, err = svc.UpdateProfile(ctx, domain.Principal{ID: 404, Role: domain.RoleUser}, app.ProfileUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProfile_DiscardsPictureWhenWriteFails(t *testing.T) {
	m := apptest.NewStore()
	ctx := context.Background()
	a, err := m.CreateAccount(ctx, domain.Account{Role: domain.RoleUser, Name: "Ali", Email: "ali@example.com", PasswordHash: "hashed:pw"})
	require.NoError(t, err)

	pics := &memPictures{}
	svc := app.NewAccountService(brokenStore{m}, plainHasher{}, fixedTokens{}, app.NewPictureService(pics, &seqNamer{}))
	_, err = svc.UpdateProfile(ctx, domain.Principal{ID: a.ID, Role: domain.RoleUser}, app.ProfileUpdate{Picture: upload("me.jpg", "j")})
	assert.ErrorIs(t, err, errWrite)
	assert.Empty(t, pics.files)
}
