package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationMode(t *testing.T) {
	tests := []struct {
		input   string
		want    PaginationMode
		wantErr bool
	}{
		{"", PaginationCumulative, false},
		{"cumulative", PaginationCumulative, false},
		{"offset", PaginationOffset, false},
		{"Offset", PaginationOffset, false},
		{"  OFFSET ", PaginationOffset, false},
		{"ofset", PaginationCumulative, true},
		{"pages", PaginationCumulative, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParsePaginationMode(tt.input)
			assert.Equal(t, tt.want, mode)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewConfig_PaginationFromEnv(t *testing.T) {
	t.Setenv("ENV_FILE", "./does-not-exist.env")

	t.Setenv("GALLERY_PAGINATION", "Offset")
	assert.Equal(t, PaginationOffset, NewConfig().Gallery.Pagination)

	t.Setenv("GALLERY_PAGINATION", "typo")
	assert.Equal(t, PaginationCumulative, NewConfig().Gallery.Pagination)
}
