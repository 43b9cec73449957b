package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/product"
)

func TestResumeCommand(t *testing.T) {
	for _, tt := range []struct {
		route string
		want  string
	}{
		{"/checkout", "storefront checkout"},
		{"/cart", "storefront cart"},
		{"/orders", "storefront orders list"},
		{"/orders/o-1", "storefront orders show o-1"},
		{"", ""},
		{"/elsewhere", "storefront"},
	} {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, resumeCommand(tt.route))
		})
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "50.00", money(decimal.NewFromInt(50)))
	assert.Equal(t, "10.13", money(decimal.RequireFromString("10.125")))
}

func TestPageFooter(t *testing.T) {
	var buf bytes.Buffer
	pageFooter(&buf, &product.Page[int]{Page: 1, TotalPages: 1})
	assert.Empty(t, buf.String())

	pageFooter(&buf, &product.Page[int]{Page: 2, TotalPages: 3, Total: 25})
	assert.Equal(t, "page 2 of 3 (25 total)  prev: --page 1  next: --page 3\n", buf.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	err := table(&buf, "A\tB", func(w io.Writer) {
		_, _ = w.Write([]byte("long-value\t1\n"))
	})
	require.NoError(t, err)
	assert.Equal(t, "A           B\nlong-value  1\n", buf.String())
}
