package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapKitchenList(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{
			name: "triple nested",
			body: `{"success":true,"data":{"data":{"data":[{"id":1},{"id":2}]}}}`,
			want: 2,
		},
		{
			name: "double nested",
			body: `{"success":true,"data":{"data":[{"id":1}]}}`,
			want: 1,
		},
		{
			name: "single envelope",
			body: `{"success":true,"data":[{"id":1},{"id":2},{"id":3}]}`,
			want: 3,
		},
		{
			name: "flat array",
			body: `[{"id":1}]`,
			want: 1,
		},
		{
			name: "empty array",
			body: `[]`,
			want: 0,
		},
		{
			name: "unrecognized shape degrades to empty",
			body: `{"success":true,"data":{"orders":"nope"}}`,
			want: 0,
		},
		{
			name: "garbage degrades to empty",
			body: `not json`,
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, unwrapKitchenList([]byte(tc.body)), tc.want)
		})
	}
}

func TestUnwrapKitchenList_PreservesElements(t *testing.T) {
	list := unwrapKitchenList([]byte(`{"success":true,"data":{"data":{"data":[{"id":1}]}}}`))
	require.Len(t, list, 1)
	assert.JSONEq(t, `{"id":1}`, string(list[0]))
}
