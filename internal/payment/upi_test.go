package payment

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/trademaster/internal/model"
)

func TestDeepLink(t *testing.T) {
	upi := model.UPIDetails{VPA: "yourupi@upi", Name: "TradeMaster Academy"}
	course := model.Course{Title: "Stock Market Fundamentals", Price: 1999}

	got := DeepLink(upi, course)

	assert.Equal(t,
		"upi://pay?pa=yourupi@upi&pn=TradeMaster%20Academy&am=1999&cu=INR&tn=Course%3A%20Stock%20Market%20Fundamentals",
		got,
	)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "upi", u.Scheme)
	assert.Equal(t, "Course: Stock Market Fundamentals", u.Query().Get("tn"))
	assert.Equal(t, "1999", u.Query().Get("am"))
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "a b", want: "a%20b"},
		{in: "Options & Futures (Pro)!", want: "Options%20%26%20Futures%20(Pro)!"},
		{in: "it's *new* ~", want: "it's%20*new*%20~"},
		{in: "a+b=c", want: "a%2Bb%3Dc"},
		{in: "₹", want: "%E2%82%B9"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeComponent(tt.in))
		})
	}
}
