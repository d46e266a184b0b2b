package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPage(t *testing.T) {
	p := PageRequest{}
	p.DefaultPage()
	assert.Equal(t, PageRequest{Limit: DefaultPageLimit}, p)

	p = PageRequest{Limit: 500, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, PageRequest{Limit: MaxPageLimit}, p)
}

func TestNewPageResponse_HasMore(t *testing.T) {
	assert.True(t, NewPageResponse(20, 0, 20).HasMore)
	assert.False(t, NewPageResponse(20, 40, 7).HasMore)
	assert.False(t, NewPageResponse(0, 0, 0).HasMore)
}
