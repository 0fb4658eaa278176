package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailFormatValid(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ana@studio.com", true},
		{"ana.silva+agenda@studio.com.br", true},
		{"ana@localhost", false},
		{"Ana <ana@studio.com>", false},
		{"ana", false},
		{"@studio.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmailFormatValid(tt.email))
		})
	}
}

func TestIsEmailDomainValidRejectsMissingDomain(t *testing.T) {
	assert.False(t, IsEmailDomainValid("ana@"))
	assert.False(t, IsEmailDomainValid("ana"))
}
