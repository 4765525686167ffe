package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simon-Kral/Coderr/internal/domains/identity/adapters/memory"
	"github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
)

func newTestService() *Service {
	return NewService(memory.NewRepository(), memory.NewSessionStore())
}

func registerInput(username string, kind domain.ProfileKind) RegisterInput {
	return RegisterInput{
		Username:         username,
		Email:            username + "@example.com",
		Password:         "secret123",
		RepeatedPassword: "secret123",
		Kind:             kind,
	}
}

func TestRegister_IssuesTokenAndProfile(t *testing.T) {
	svc := newTestService()

	session, err := svc.Register(context.Background(), registerInput("anna", domain.KindBusiness))
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, "anna", session.Username)
	require.Equal(t, "anna@example.com", session.Email)
	require.Positive(t, session.AccountID)
	require.Positive(t, session.ProfileID)

	view, err := svc.Authenticate(context.Background(), session.Token)
	require.NoError(t, err)
	require.Equal(t, session.AccountID, view.Account.ID)
	require.Equal(t, domain.KindBusiness, view.Profile.Kind)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc := newTestService()

	input := registerInput("anna", domain.KindCustomer)
	input.RepeatedPassword = "different"
	_, err := svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegister_UnknownKind(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), registerInput("anna", domain.ProfileKind("moderator")))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), registerInput("anna", domain.KindCustomer))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerInput("anna", domain.KindBusiness))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrUsernameTaken)
}

func TestLogin_VerifiesCredentials(t *testing.T) {
	svc := newTestService()

	registered, err := svc.Register(context.Background(), registerInput("anna", domain.KindCustomer))
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "anna", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, registered.AccountID, session.AccountID)

	_, err = svc.Login(context.Background(), "anna", "wrong")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "secret123")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestLogout_DropsSessions(t *testing.T) {
	svc := newTestService()

	session, err := svc.Register(context.Background(), registerInput("anna", domain.KindCustomer))
	require.NoError(t, err)

	svc.Logout(context.Background(), "anna")

	_, err = svc.Authenticate(context.Background(), session.Token)
	require.ErrorIs(t, err, ports.ErrTokenUnknown)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	svc := newTestService()

	_, err := svc.Authenticate(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ports.ErrTokenUnknown)
}

func TestUpdateProfile_NameAndEmail(t *testing.T) {
	svc := newTestService()

	session, err := svc.Register(context.Background(), registerInput("anna", domain.KindCustomer))
	require.NoError(t, err)

	first, last, email := "Anna", "Schmidt", "anna.schmidt@example.com"
	view, err := svc.UpdateProfile(context.Background(), session.AccountID, UpdateProfileInput{
		FirstName: &first,
		LastName:  &last,
		Email:     &email,
	})
	require.NoError(t, err)
	require.Equal(t, "Anna", view.Account.FirstName)
	require.Equal(t, "Schmidt", view.Account.LastName)
	require.Equal(t, "anna.schmidt@example.com", view.Account.Email)
}

func TestUpdateProfile_BusinessContactBlock(t *testing.T) {
	svc := newTestService()

	session, err := svc.Register(context.Background(), registerInput("studio", domain.KindBusiness))
	require.NoError(t, err)

	location, tel := "Berlin", "030123456"
	view, err := svc.UpdateProfile(context.Background(), session.AccountID, UpdateProfileInput{
		Location: &location,
		Tel:      &tel,
	})
	require.NoError(t, err)
	require.Equal(t, "Berlin", view.Profile.Location)
	require.Equal(t, "030123456", view.Profile.Tel)
}

func TestUpdateProfile_CustomerRejectsBusinessFields(t *testing.T) {
	svc := newTestService()

	session, err := svc.Register(context.Background(), registerInput("anna", domain.KindCustomer))
	require.NoError(t, err)

	location := "Berlin"
	_, err = svc.UpdateProfile(context.Background(), session.AccountID, UpdateProfileInput{Location: &location})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNotBusiness)
}

func TestUpdateProfile_UnknownAccount(t *testing.T) {
	svc := newTestService()

	first := "Anna"
	_, err := svc.UpdateProfile(context.Background(), 4242, UpdateProfileInput{FirstName: &first})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListProfiles_FiltersByKind(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), registerInput("studio", domain.KindBusiness))
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), registerInput("anna", domain.KindCustomer))
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), registerInput("bob", domain.KindCustomer))
	require.NoError(t, err)

	customers, err := svc.ListProfiles(context.Background(), domain.KindCustomer)
	require.NoError(t, err)
	require.Len(t, customers, 2)

	businesses, err := svc.ListProfiles(context.Background(), domain.KindBusiness)
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	require.Equal(t, "studio", businesses[0].Account.Username)

	count, err := svc.CountBusinessProfiles(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestProfileKind_ResolvesVariant(t *testing.T) {
	svc := newTestService()

	session, err := svc.Register(context.Background(), registerInput("studio", domain.KindBusiness))
	require.NoError(t, err)

	kind, err := svc.ProfileKind(context.Background(), session.AccountID)
	require.NoError(t, err)
	require.Equal(t, domain.KindBusiness, kind)

	_, err = svc.ProfileKind(context.Background(), 4242)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
