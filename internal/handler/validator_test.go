package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedInput struct {
	Username string `validate:"required,max=16,username"`
	Rarity   string `validate:"rarity"`
	Quantity int    `validate:"min=1,max=10"`
}

func TestValidator_Tags(t *testing.T) {
	tests := []struct {
		name      string
		input     validatedInput
		wantField string
		wantMsg   string
	}{
		{"valid", validatedInput{Username: "alice", Rarity: "SSS+", Quantity: 1}, "", ""},
		{"mention prefix allowed", validatedInput{Username: "@alice", Quantity: 10}, "", ""},
		{"bare @", validatedInput{Username: "@", Quantity: 1}, "username", "Invalid username"},
		{"whitespace", validatedInput{Username: "al ice", Quantity: 1}, "username", "Invalid username"},
		{"control char", validatedInput{Username: "al\tice", Quantity: 1}, "username", "Invalid username"},
		{"missing", validatedInput{Quantity: 1}, "username", "This field is required"},
		{"too long", validatedInput{Username: "abcdefghijklmnopq", Quantity: 1}, "username", "Must be at most 16"},
		{"bad rarity", validatedInput{Username: "alice", Rarity: "S*", Quantity: 1}, "rarity", "Invalid rarity tier"},
		{"quantity low", validatedInput{Username: "alice", Quantity: 0}, "quantity", "Must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().ValidateStruct(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := FormatValidationError(err)
			assert.Equal(t, tt.wantMsg, fields[tt.wantField])
		})
	}
}

func TestFormatValidationError_NonValidatorError(t *testing.T) {
	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(errors.New("boom")))
}
