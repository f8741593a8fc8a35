// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedRequest struct {
	Title string   `validate:"required,min=2,max=100"`
	Tags  []string `validate:"max=10,dive,tagline"`
}

func TestValidateStructOK(t *testing.T) {
	err := ValidateStruct(taggedRequest{
		Title: "Pong Remake",
		Tags:  []string{"retro", "multiplayer"},
	})

	assert.NoError(t, err)
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(taggedRequest{})
	require.Error(t, err)

	fields := GetValidationErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "title", fields[0].Field)
	assert.Equal(t, "required", fields[0].Tag)
}

func TestTaglineValidation(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		ok   bool
	}{
		{"plain", "retro", true},
		{"max length", "aaaaaaaaaaaaaaaaaaaa", true},
		{"too long", "aaaaaaaaaaaaaaaaaaaaa", false},
		{"empty", "", false},
		{"leading space", " retro", false},
		{"trailing space", "retro ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(taggedRequest{Title: "Pong", Tags: []string{tt.tag}})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTooManyTags(t *testing.T) {
	tags := make([]string, 11)
	for i := range tags {
		tags[i] = "tag"
	}

	err := ValidateStruct(taggedRequest{Title: "Pong", Tags: tags})
	assert.Error(t, err)
}
