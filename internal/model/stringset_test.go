package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStringSet(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   StringSet
	}{
		{name: "empty", values: nil, want: StringSet{}},
		{name: "dedupe and sort", values: []string{"b", "a", "b"}, want: StringSet{"a", "b"}},
		{name: "trim and drop blanks", values: []string{" go ", "", "  "}, want: StringSet{"go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewStringSet(tt.values...))
		})
	}
}

func TestStringSet_ValueScan(t *testing.T) {
	set := NewStringSet("draft", "legal")

	value, err := set.Value()
	require.NoError(t, err)
	assert.Equal(t, `["draft","legal"]`, value)

	var scanned StringSet
	require.NoError(t, scanned.Scan([]byte(`["legal","draft","legal"]`)))
	assert.True(t, set.Equal(scanned))

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestChangeKind_Valid(t *testing.T) {
	assert.True(t, ChangeKindRestoration.Valid())
	assert.False(t, ChangeKind("merge").Valid())
	assert.Equal(t, "v1700000000000", VersionToken(1700000000000))
}
