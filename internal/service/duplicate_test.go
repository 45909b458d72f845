package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beyzasenay/mini-crm/internal/domain"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"formatted with parentheses", "(532) 111-2233", "5321112233"},
		{"plus country code", "+90 532 111 2233", "5321112233"},
		{"leading zero", "0532 111 22 33", "5321112233"},
		{"country code without plus", "90 532 111 2233", "5321112233"},
		{"already normalized", "5321112233", "5321112233"},
		{"empty", "", ""},
		{"letters only", "no digits here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	for _, in := range []string{"(532) 111-2233", "+90 532 111 2233", "0532 111 22 33"} {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once), "normalization must be idempotent for %q", in)
	}
}

func TestFindDuplicateByPhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stored := f.seedCustomer(t, domain.Customer{FirstName: "Ahmet", Phone: "0532 111 22 33"})

	match, err := f.matcher.FindDuplicate(ctx, Candidate{FirstName: "Mehmet", Phone: "+90 532 111 2233"})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, MatchReasonPhone, match.Reason)
	assert.Equal(t, stored.ID, match.Customer.ID)
}

func TestFindDuplicateByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stored := f.seedCustomer(t, domain.Customer{FirstName: "Ayse", Email: "ayse@example.com"})

	match, err := f.matcher.FindDuplicate(ctx, Candidate{FirstName: "Fatma", Email: "AYSE@Example.COM"})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, MatchReasonEmail, match.Reason)
	assert.Equal(t, stored.ID, match.Customer.ID)
}

func TestFindDuplicateByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stored := f.seedCustomer(t, domain.Customer{FirstName: "Ahmet", LastName: "Yilmaz"})

	match, err := f.matcher.FindDuplicate(ctx, Candidate{FirstName: "ahmet", LastName: "YILMAZ"})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, MatchReasonName, match.Reason)
	assert.Equal(t, stored.ID, match.Customer.ID)
}

func TestFindDuplicateNameRequiresLastNameWhenSupplied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedCustomer(t, domain.Customer{FirstName: "Ahmet", LastName: "Yilmaz"})

	match, err := f.matcher.FindDuplicate(ctx, Candidate{FirstName: "Ahmet", LastName: "Demir"})
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestFindDuplicatePhoneWinsOverEmailAndName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	byPhone := f.seedCustomer(t, domain.Customer{FirstName: "Kemal", Phone: "5321112233"})
	f.seedCustomer(t, domain.Customer{FirstName: "Ahmet", Email: "ahmet@example.com"})

	match, err := f.matcher.FindDuplicate(ctx, Candidate{
		FirstName: "Ahmet",
		Phone:     "+90 532 111 2233",
		Email:     "ahmet@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, MatchReasonPhone, match.Reason)
	assert.Equal(t, byPhone.ID, match.Customer.ID)
}

func TestFindDuplicateEmailWinsOverName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	byEmail := f.seedCustomer(t, domain.Customer{FirstName: "Zeynep", Email: "zeynep@example.com"})
	f.seedCustomer(t, domain.Customer{FirstName: "Elif"})

	match, err := f.matcher.FindDuplicate(ctx, Candidate{FirstName: "Elif", Email: "zeynep@example.com"})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, MatchReasonEmail, match.Reason)
	assert.Equal(t, byEmail.ID, match.Customer.ID)
}

func TestFindDuplicateNoMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedCustomer(t, domain.Customer{FirstName: "Ahmet", Phone: "5321112233", Email: "ahmet@example.com"})

	match, err := f.matcher.FindDuplicate(ctx, Candidate{
		FirstName: "Mehmet",
		Phone:     "5559998877",
		Email:     "mehmet@example.com",
	})
	require.NoError(t, err)
	assert.Nil(t, match)
}
