package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Red Bike", "red-bike"},
		{"  Bici   Roja! ", "bici-roja"},
		{"Ñandú de peluche", "nandu-de-peluche"},
		{"!!!", "advert"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugCandidate(t *testing.T) {
	assert.Equal(t, "red-bike", SlugCandidate("red-bike", 0))
	assert.Equal(t, "red-bike", SlugCandidate("red-bike", 1))
	assert.Equal(t, "red-bike-2", SlugCandidate("red-bike", 2))
	assert.Equal(t, "red-bike-10", SlugCandidate("red-bike", 10))
}
