package dataset_test

import (
	"testing"

	"geo-legend/internal/dataset"

	"github.com/stretchr/testify/assert"
)

func TestDeriveJoinKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"geoId/12031", "12031", true},
		{" geoId/12031 ", "12031", true},
		{"geoId/12031/extra", "12031", true},
		{"12031", "", false},
		{"geoId/", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := dataset.DeriveJoinKey(c.in)
		assert.Equal(t, c.want, got, c.in)
		assert.Equal(t, c.ok, ok, c.in)
	}
}
