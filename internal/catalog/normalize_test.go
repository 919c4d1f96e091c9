package catalog

import (
	"encoding/json"
	"testing"

	"catalog-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArray(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []any
	}{
		{"nil", nil, []any{}},
		{"native array", []any{"a", 1.0}, []any{"a", 1.0}},
		{"json array string", `["a","b"]`, []any{"a", "b"}},
		{"json string literal", `"hello"`, []any{}},
		{"json object string", `{"title":"x"}`, []any{}},
		{"malformed json", `[{"title":`, []any{}},
		{"number", 42.0, []any{}},
		{"object", map[string]any{"title": "x"}, []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, NormalizeArray(tt.input))
			})
		})
	}
}

func TestNormalizeTagsDropsIncompleteElements(t *testing.T) {
	input := []any{
		map[string]any{"title": "Go", "tagsId": "go"},
		map[string]any{"title": "no id"},
		"raw-string",
		map[string]any{"title": 7.0, "tagsId": true},
	}

	tags := NormalizeTags(input)

	assert.Equal(t, []model.Tag{
		{Title: "Go", TagsID: "go"},
		{Title: "7", TagsID: "true"},
	}, tags)
}

func TestNormalizeTagsFromJSONString(t *testing.T) {
	tags := NormalizeTags(`[{"title":"Web","tagsId":"web"}]`)
	assert.Equal(t, []model.Tag{{Title: "Web", TagsID: "web"}}, tags)
}

func TestNormalizeTagsIsIdempotent(t *testing.T) {
	first := NormalizeTags([]any{
		map[string]any{"title": "Go", "tagsId": "go"},
		map[string]any{"tagsId": "orphan"},
	})

	assert.Equal(t, first, NormalizeTags(first))

	// Re-normalizing the JSON form of the result must not change it either.
	raw, err := json.Marshal(first)
	require.NoError(t, err)
	assert.Equal(t, first, NormalizeTags(string(raw)))
}

func TestNormalizeCategory(t *testing.T) {
	t.Run("array collapses to first element", func(t *testing.T) {
		c := NormalizeCategory([]any{
			map[string]any{"title": "A", "categoryId": "a1"},
			map[string]any{"title": "B", "categoryId": "b1"},
		})
		require.NotNil(t, c)
		assert.Equal(t, model.Category{Title: "A", CategoryID: "a1"}, *c)
	})

	t.Run("object", func(t *testing.T) {
		c := NormalizeCategory(map[string]any{"title": "A", "categoryId": "a1"})
		require.NotNil(t, c)
		assert.Equal(t, "a1", c.CategoryID)
	})

	t.Run("rejected shapes", func(t *testing.T) {
		assert.Nil(t, NormalizeCategory(nil))
		assert.Nil(t, NormalizeCategory("A"))
		assert.Nil(t, NormalizeCategory([]any{}))
		assert.Nil(t, NormalizeCategory(map[string]any{"title": "A"}))
	})
}

func TestNormalizeType(t *testing.T) {
	tp := NormalizeType([]any{map[string]any{"title": "Template", "typeId": "template"}})
	require.NotNil(t, tp)
	assert.Equal(t, model.Type{Title: "Template", TypeID: "template"}, *tp)

	assert.Nil(t, NormalizeType(map[string]any{"typeId": "template"}))
}

func TestNormalizeStrings(t *testing.T) {
	assert.Equal(t, []string{"a.png", "b.png"}, NormalizeStrings(`["a.png", 3, "b.png"]`))
	assert.Equal(t, []string{}, NormalizeStrings("not json"))
}
