package book

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYear_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		want    Year
		wantErr bool
	}{
		{"number", `{"publishedYear":1965}`, 1965, false},
		{"numeric string", `{"publishedYear":"1965"}`, 1965, false},
		{"null", `{"publishedYear":null}`, 0, false},
		{"empty string", `{"publishedYear":""}`, 0, false},
		{"garbage", `{"publishedYear":"next year"}`, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var in Input
			err := json.Unmarshal([]byte(tc.body), &in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, in.PublishedYear)
		})
	}
}

func TestInput_Validate(t *testing.T) {
	valid := Input{
		Title:         "Dune",
		Author:        "Herbert",
		Genre:         "SciFi",
		ISBN:          "123",
		PublishedYear: 1965,
	}

	t.Run("valid", func(t *testing.T) {
		in := valid
		in.Normalize()
		assert.NoError(t, in.Validate())
	})

	t.Run("whitespace only is missing", func(t *testing.T) {
		in := valid
		in.Author = "   "
		in.Normalize()
		err := in.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"author"}, verr.Fields)
	})

	t.Run("zero year is missing", func(t *testing.T) {
		in := valid
		in.PublishedYear = 0
		in.Normalize()
		err := in.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "publishedYear")
	})

	t.Run("reports json field names", func(t *testing.T) {
		in := Input{}
		err := in.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"title", "author", "genre", "isbn", "publishedYear"}, verr.Fields)
	})
}

func TestInput_Fields_Defaults(t *testing.T) {
	in := Input{
		Title:         " Dune ",
		Author:        "Herbert",
		Genre:         "SciFi",
		ISBN:          " 123 ",
		PublishedYear: 1965,
	}
	in.Normalize()
	f := in.Fields()

	assert.Equal(t, "Dune", f.Title)
	assert.Equal(t, "123", f.ISBN)
	assert.Equal(t, "", f.Description, "optional fields default to empty string")
	assert.Equal(t, "", f.CoverURL)
}
