package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPhones(t *testing.T) {
	phones := DefaultPhones()
	assert.Len(t, phones, 3)

	slugs := make([]string, 0, len(phones))
	for _, p := range phones {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.AppURL)
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"iphone", "android", "blackberry"}, slugs)
}

func TestFindPhone(t *testing.T) {
	phones := DefaultPhones()

	p, ok := FindPhone(phones, "android")
	assert.True(t, ok)
	assert.Equal(t, "Android", p.Title)

	_, ok = FindPhone(phones, "nokia")
	assert.False(t, ok)

	_, ok = FindPhone(phones, "")
	assert.False(t, ok)
}
