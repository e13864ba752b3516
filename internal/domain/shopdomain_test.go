package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeShopDomain(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "example.myshopify.com", "example.myshopify.com"},
		{"uppercase host", "Example.MyShopify.Com", "example.myshopify.com"},
		{"https scheme", "https://example.myshopify.com", "example.myshopify.com"},
		{"http scheme", "http://example.myshopify.com", "example.myshopify.com"},
		{"trailing path", "example.myshopify.com/admin", "example.myshopify.com"},
		{"scheme, path and case", "HTTPS://Foo.MyShopify.Com/admin/oauth", "foo.myshopify.com"},
		{"surrounding whitespace", "  example.myshopify.com  ", "example.myshopify.com"},
		{"single character name", "a.myshopify.com", "a.myshopify.com"},
		{"hyphenated name", "my-great-store.myshopify.com", "my-great-store.myshopify.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeShopDomain(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeShopDomainIdempotent(t *testing.T) {
	once, err := NormalizeShopDomain("HTTPS://Foo.MyShopify.Com/admin")
	require.NoError(t, err)

	twice, err := NormalizeShopDomain(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizeShopDomainEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t"} {
		_, err := NormalizeShopDomain(in)
		assert.ErrorIs(t, err, ErrShopDomainEmpty, "input %q", in)
	}
}

func TestNormalizeShopDomainInvalid(t *testing.T) {
	cases := []string{
		"example.com",
		"foo.notshopify.com",
		"myshopify.com",
		".myshopify.com",
		"-store.myshopify.com",
		"store-.myshopify.com",
		"example.myshopify.com.evil.com",
		"evil.com/example.myshopify.com",
		"store name.myshopify.com",
		"https://",
	}
	for _, in := range cases {
		_, err := NormalizeShopDomain(in)
		assert.ErrorIs(t, err, ErrShopDomainInvalid, "input %q", in)
	}
}

func TestIsValidShopDomain(t *testing.T) {
	assert.True(t, IsValidShopDomain("example.myshopify.com"))
	assert.True(t, IsValidShopDomain("https://example.myshopify.com/admin"))
	assert.False(t, IsValidShopDomain("example.com"))
	assert.False(t, IsValidShopDomain(""))
}
