package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Jane Doe", "jane-doe"},
		{"  Jane   Doe  ", "jane-doe"},
		{"K.P. Sharma Oli", "k-p-sharma-oli"},
		{"UPPERCASE", "uppercase"},
		{"with 2 numbers 34", "with-2-numbers-34"},
		{"trailing punctuation!!!", "trailing-punctuation"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.name), "Slugify(%q)", tc.name)
	}
}
