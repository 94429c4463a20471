package contacts_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"domainintel/pkg/contacts"
	mockcontacts "domainintel/pkg/contacts/mock"
	"domainintel/pkg/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const host = "acme.example"

func newProviders(t *testing.T, primaryConfigured, secondaryConfigured bool) (
	*mockcontacts.MockProvider, *mockcontacts.MockProvider) {
	t.Helper()

	ctrl := gomock.NewController(t)
	primary := mockcontacts.NewMockProvider(ctrl)
	primary.EXPECT().Source().Return(domain.ContactSourceHunter).AnyTimes()
	primary.EXPECT().Configured().Return(primaryConfigured).AnyTimes()
	secondary := mockcontacts.NewMockProvider(ctrl)
	secondary.EXPECT().Source().Return(domain.ContactSourceSnov).AnyTimes()
	secondary.EXPECT().Configured().Return(secondaryConfigured).AnyTimes()

	return primary, secondary
}

func contactsOf(source domain.ContactSource, confidence int, emails ...string) []domain.Contact {
	out := make([]domain.Contact, 0, len(emails))
	for _, e := range emails {
		out = append(out, domain.Contact{Email: e, Source: source, Confidence: confidence})
	}

	return out
}

func emailsOf(cs []domain.Contact) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Email)
	}

	return out
}

func TestWaterfall_Discover_primaryFillsQuota(t *testing.T) {
	primary, secondary := newProviders(t, true, true)
	primary.EXPECT().SearchDomain(gomock.Any(), host, 5).Return(
		contactsOf(domain.ContactSourceHunter, 90, "a@acme.example", "b@acme.example", "c@acme.example",
			"d@acme.example", "e@acme.example"), nil)
	// no SearchDomain expectation on secondary: calling it fails the test

	d := contacts.NewWaterfall(primary, secondary, nil).Discover(context.Background(), host, contacts.PreferBoth, 5)
	require.Len(t, d.Contacts, 5)
	require.Equal(t, domain.ContactSourceHunter, d.Source)
	require.Empty(t, d.Failures)
}

func TestWaterfall_Discover_primaryUnconfigured(t *testing.T) {
	primary, secondary := newProviders(t, false, true)
	secondary.EXPECT().SearchDomain(gomock.Any(), host, 5).Return(
		contactsOf(domain.ContactSourceSnov, 50, "a@acme.example", "b@acme.example", "c@acme.example"), nil)

	d := contacts.NewWaterfall(primary, secondary, nil).Discover(context.Background(), host, contacts.PreferBoth, 5)
	require.Len(t, d.Contacts, 3)
	require.Equal(t, domain.ContactSourceSnov, d.Source)
}

func TestWaterfall_Discover_secondaryAskedForDeficitAndDeduped(t *testing.T) {
	primary, secondary := newProviders(t, true, true)
	primary.EXPECT().SearchDomain(gomock.Any(), host, 3).Return(
		contactsOf(domain.ContactSourceHunter, 70, "Jane@Acme.example"), nil)
	secondary.EXPECT().SearchDomain(gomock.Any(), host, 2).Return(
		append(contactsOf(domain.ContactSourceSnov, 90, "jane@acme.example", "bob@acme.example"),
			contactsOf(domain.ContactSourceSnov, 50, "eve@acme.example")...), nil)

	d := contacts.NewWaterfall(primary, secondary, nil).Discover(context.Background(), host, contacts.PreferBoth, 3)
	require.Equal(t, []string{"bob@acme.example", "Jane@Acme.example", "eve@acme.example"}, emailsOf(d.Contacts))
	require.Equal(t, domain.ContactSourceSnov, d.Source)
}

func TestWaterfall_Discover_secondaryAddsNothing(t *testing.T) {
	primary, secondary := newProviders(t, true, true)
	primary.EXPECT().SearchDomain(gomock.Any(), host, 4).Return(
		contactsOf(domain.ContactSourceHunter, 80, "a@acme.example"), nil)
	secondary.EXPECT().SearchDomain(gomock.Any(), host, 3).Return(
		contactsOf(domain.ContactSourceSnov, 90, "A@acme.example"), nil)

	d := contacts.NewWaterfall(primary, secondary, nil).Discover(context.Background(), host, contacts.PreferBoth, 4)
	require.Equal(t, []string{"a@acme.example"}, emailsOf(d.Contacts))
	require.Equal(t, domain.ContactSourceHunter, d.Source)
}

func TestWaterfall_Discover_failuresAreAbsorbed(t *testing.T) {
	primary, secondary := newProviders(t, true, true)
	primary.EXPECT().SearchDomain(gomock.Any(), host, 2).Return(nil, errors.New("boom"))
	secondary.EXPECT().SearchDomain(gomock.Any(), host, 2).Return(nil, errors.New("bang"))

	d := contacts.NewWaterfall(primary, secondary, nil).Discover(context.Background(), host, contacts.PreferBoth, 2)
	require.NotNil(t, d.Contacts)
	require.Empty(t, d.Contacts)
	require.Len(t, d.Failures, 2)
	require.Equal(t, "contact discovery (hunter) failed: boom", d.Failures[0].Error())
	require.Equal(t, "contact discovery (snov) failed: bang", d.Failures[1].Error())
}

func TestWaterfall_Discover_nothingConfigured(t *testing.T) {
	primary, secondary := newProviders(t, false, false)

	for _, w := range []*contacts.Waterfall{
		contacts.NewWaterfall(primary, secondary, nil),
		contacts.NewWaterfall(nil, nil, nil),
	} {
		d := w.Discover(context.Background(), host, contacts.PreferBoth, 10)
		require.NotNil(t, d.Contacts)
		require.Empty(t, d.Contacts)
		require.Empty(t, d.Failures)
		require.Equal(t, domain.ContactSourceNone, d.Source)
	}
}

func TestWaterfall_Discover_preference(t *testing.T) {
	t.Run("primary only", func(t *testing.T) {
		primary, secondary := newProviders(t, true, true)
		primary.EXPECT().SearchDomain(gomock.Any(), host, 5).Return(nil, nil)

		d := contacts.NewWaterfall(primary, secondary, nil).Discover(context.Background(), host, contacts.PreferPrimary, 5)
		require.Empty(t, d.Contacts)
		require.Equal(t, domain.ContactSourceHunter, d.Source)
	})

	t.Run("secondary only", func(t *testing.T) {
		primary, secondary := newProviders(t, true, true)
		secondary.EXPECT().SearchDomain(gomock.Any(), host, 5).Return(
			contactsOf(domain.ContactSourceSnov, 50, "a@acme.example"), nil)

		d := contacts.NewWaterfall(primary, secondary, nil).Discover(context.Background(), host, contacts.PreferSecondary, 5)
		require.Len(t, d.Contacts, 1)
		require.Equal(t, domain.ContactSourceSnov, d.Source)
	})
}

func TestWaterfall_Discover_capsOversizedProviderResults(t *testing.T) {
	primary, secondary := newProviders(t, true, true)
	var many []string
	for i := range 8 {
		many = append(many, fmt.Sprintf("user%d@acme.example", i))
	}
	primary.EXPECT().SearchDomain(gomock.Any(), host, 3).Return(contactsOf(domain.ContactSourceHunter, 60, many...), nil)

	d := contacts.NewWaterfall(primary, secondary, nil).Discover(context.Background(), host, contacts.PreferBoth, 3)
	require.Len(t, d.Contacts, 3)
}

func TestWaterfall_VerifyEmail(t *testing.T) {
	const email = "jane@acme.example"
	score := 93

	t.Run("primary verdict wins", func(t *testing.T) {
		primary, secondary := newProviders(t, true, true)
		primary.EXPECT().VerifyEmail(gomock.Any(), email).Return(&contacts.Verification{Valid: true, Score: &score}, nil)

		v := contacts.NewWaterfall(primary, secondary, nil).VerifyEmail(context.Background(), email)
		require.Equal(t, contacts.Verdict{Valid: true, Score: &score, Source: domain.ContactSourceHunter}, v)
	})

	t.Run("falls back when primary has no verdict", func(t *testing.T) {
		primary, secondary := newProviders(t, true, true)
		primary.EXPECT().VerifyEmail(gomock.Any(), email).Return(nil, nil)
		secondary.EXPECT().VerifyEmail(gomock.Any(), email).Return(&contacts.Verification{Valid: false}, nil)

		v := contacts.NewWaterfall(primary, secondary, nil).VerifyEmail(context.Background(), email)
		require.False(t, v.Valid)
		require.Equal(t, domain.ContactSourceSnov, v.Source)
	})

	t.Run("falls back when primary is unconfigured", func(t *testing.T) {
		primary, secondary := newProviders(t, false, true)
		secondary.EXPECT().VerifyEmail(gomock.Any(), email).Return(&contacts.Verification{Valid: true}, nil)

		v := contacts.NewWaterfall(primary, secondary, nil).VerifyEmail(context.Background(), email)
		require.True(t, v.Valid)
		require.Equal(t, domain.ContactSourceSnov, v.Source)
	})

	t.Run("no provider can verify", func(t *testing.T) {
		primary, secondary := newProviders(t, true, true)
		primary.EXPECT().VerifyEmail(gomock.Any(), email).Return(nil, errors.New("quota exceeded"))
		secondary.EXPECT().VerifyEmail(gomock.Any(), email).Return(nil, nil)

		v := contacts.NewWaterfall(primary, secondary, nil).VerifyEmail(context.Background(), email)
		require.Equal(t, contacts.Verdict{Valid: false, Source: domain.ContactSourceNone}, v)
	})
}

func TestWaterfall_Credits(t *testing.T) {
	primary, secondary := newProviders(t, true, false)
	primary.EXPECT().Credits(gomock.Any()).Return(&contacts.Balance{Remaining: 20, Used: 5, Limit: 25}, nil)

	reports := contacts.NewWaterfall(primary, secondary, nil).Credits(context.Background())
	require.Equal(t, []contacts.CreditReport{
		{Source: domain.ContactSourceHunter, Configured: true, Balance: &contacts.Balance{Remaining: 20, Used: 5, Limit: 25}},
		{Source: domain.ContactSourceSnov, Configured: false},
	}, reports)
}

func TestParsePreference(t *testing.T) {
	tests := []struct {
		in      string
		want    contacts.Preference
		wantErr bool
	}{
		{in: "", want: contacts.PreferBoth},
		{in: "Both", want: contacts.PreferBoth},
		{in: "primary", want: contacts.PreferPrimary},
		{in: "hunter", want: contacts.PreferPrimary},
		{in: "snov", want: contacts.PreferSecondary},
		{in: "clearbit", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := contacts.ParsePreference(tt.in, domain.ContactSourceHunter, domain.ContactSourceSnov)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
