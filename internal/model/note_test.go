package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNote_Validate(t *testing.T) {
	tests := []struct {
		name    string
		note    Note
		wantErr bool
		fields  []string
	}{
		{
			name: "valid note",
			note: Note{ChatID: 1, UserID: 2, Text: "купить молоко"},
		},
		{
			name:    "missing chat",
			note:    Note{Text: "hello"},
			wantErr: true,
			fields:  []string{"chat_id"},
		},
		{
			name:    "blank text",
			note:    Note{ChatID: 1, Text: "   "},
			wantErr: true,
			fields:  []string{"text"},
		},
		{
			name:    "text too long",
			note:    Note{ChatID: 1, Text: strings.Repeat("я", NoteMaxLength+1)},
			wantErr: true,
			fields:  []string{"text"},
		},
		{
			name: "max length counted in characters",
			note: Note{ChatID: 1, Text: strings.Repeat("я", NoteMaxLength)},
		},
		{
			name:    "everything missing",
			note:    Note{},
			wantErr: true,
			fields:  []string{"chat_id", "text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.note.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			var fields []string
			for _, ve := range verrs {
				fields = append(fields, ve.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())

	errs := ValidationErrors{
		{Field: "a", Message: "is required"},
		{Field: "b", Message: "must be set"},
	}
	assert.Equal(t,
		"validation error for field 'a': is required; validation error for field 'b': must be set",
		errs.Error())
}
