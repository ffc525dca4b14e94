package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("asha.verma@example.com"))
	assert.True(t, ValidEmail("a+b@sub.example.co.in"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
	assert.False(t, ValidEmail("@example.com"))
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"9876543210", true},
		{"+919876543210", true},
		{"+91 98765-43210", true}, // separators are stripped first
		{"(0522) 123-4567-89", true},
		{"12345", false},
		{"abcdefghij", false},
		{"1234567890123456", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPhone(tt.value), "phone %q", tt.value)
	}
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "+919876543210", CleanPhone("+91 98765-43210"))
	assert.Equal(t, "05221234567", CleanPhone("(0522) 123-4567"))
}

func TestValidURL(t *testing.T) {
	assert.True(t, ValidURL("https://example.com/profile"))
	assert.True(t, ValidURL("http://example.com"))
	assert.False(t, ValidURL("ftp://example.com"))
	assert.False(t, ValidURL("example.com"))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("1990-06-15"))
	assert.False(t, ValidDate("15-06-1990"))
	assert.False(t, ValidDate("1990-13-01"))
	assert.False(t, ValidDate(""))
}
