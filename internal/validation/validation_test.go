package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		fields []string
	}{
		{
			name:  "registration ok",
			input: Registration{Name: "Stu", Email: "student@x.com", Password: "pw"},
		},
		{
			name:   "registration without name and password",
			input:  Registration{Email: "student@x.com"},
			fields: []string{"Name", "Password"},
		},
		{
			name:  "course with title, price and password",
			input: CourseInput{Title: "Intraday", Price: 999, Password: "DAY1"},
		},
		{
			name:   "course with blank title and zero price",
			input:  CourseInput{Title: "   ", Password: "DAY1"},
			fields: []string{"Title", "Price"},
		},
		{
			name:   "blank transaction id",
			input:  PaymentSubmission{TransactionID: " \t"},
			fields: []string{"TransactionID"},
		},
		{
			name:  "transaction id",
			input: PaymentSubmission{TransactionID: "123456789012"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if len(tt.fields) == 0 {
				require.NoError(t, err)
				return
			}

			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.fields, fe.Fields)
		})
	}
}

func TestIsValidVPA(t *testing.T) {
	tests := []struct {
		vpa   string
		valid bool
	}{
		{vpa: "yourupi@upi", valid: true},
		{vpa: "trade.master-1@okhdfcbank", valid: true},
		{vpa: "no-handle", valid: false},
		{vpa: "@upi", valid: false},
		{vpa: "name@123", valid: false},
		{vpa: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.vpa, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidVPA(tt.vpa))
		})
	}
}
