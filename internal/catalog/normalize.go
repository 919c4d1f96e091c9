package catalog

import (
	"encoding/json"
	"reflect"
	"strconv"

	"catalog-service/internal/model"
)

// NormalizeArray coerces a loosely typed field into a slice. Native slices
// pass through, strings are parsed as JSON and kept only when they decode to
// an array. Everything else, including malformed JSON, becomes empty.
func NormalizeArray(v any) []any {
	switch val := v.(type) {
	case nil:
		return []any{}
	case []any:
		return val
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(val), &parsed); err != nil {
			return []any{}
		}
		if arr, ok := parsed.([]any); ok {
			return arr
		}
		return []any{}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// NormalizeTags keeps the elements that carry both title and tagsId.
func NormalizeTags(v any) []model.Tag {
	items := NormalizeArray(v)
	tags := make([]model.Tag, 0, len(items))
	for _, item := range items {
		if tag, ok := item.(model.Tag); ok {
			tags = append(tags, tag)
			continue
		}
		if title, id, ok := embeddedPair(item, "tagsId"); ok {
			tags = append(tags, model.Tag{Title: title, TagsID: id})
		}
	}
	return tags
}

// NormalizeFrameworks keeps the elements that carry both title and frameworksId.
func NormalizeFrameworks(v any) []model.Framework {
	items := NormalizeArray(v)
	frameworks := make([]model.Framework, 0, len(items))
	for _, item := range items {
		if fw, ok := item.(model.Framework); ok {
			frameworks = append(frameworks, fw)
			continue
		}
		if title, id, ok := embeddedPair(item, "frameworksId"); ok {
			frameworks = append(frameworks, model.Framework{Title: title, FrameworksID: id})
		}
	}
	return frameworks
}

// NormalizeStrings keeps the string elements of an array field.
func NormalizeStrings(v any) []string {
	items := NormalizeArray(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeCategory collapses legacy array input to its first element and
// returns nil when the shape does not match.
func NormalizeCategory(v any) *model.Category {
	first := firstElement(v)
	if c, ok := first.(model.Category); ok {
		return &c
	}
	title, id, ok := embeddedPair(first, "categoryId")
	if !ok {
		return nil
	}
	return &model.Category{Title: title, CategoryID: id}
}

// NormalizeType follows the same rules as NormalizeCategory.
func NormalizeType(v any) *model.Type {
	first := firstElement(v)
	if t, ok := first.(model.Type); ok {
		return &t
	}
	title, id, ok := embeddedPair(first, "typeId")
	if !ok {
		return nil
	}
	return &model.Type{Title: title, TypeID: id}
}

func normalizeAuthor(v any) *model.Author {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	name, ok := obj["name"]
	if !ok {
		return nil
	}
	author := &model.Author{Name: stringify(name)}
	if email, ok := obj["email"]; ok {
		author.Email = stringify(email)
	}
	return author
}

func normalizeDownload(v any) *model.Download {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	url, ok := obj["url"]
	if !ok {
		return nil
	}
	download := &model.Download{URL: stringify(url)}
	if version, ok := obj["version"]; ok {
		download.Version = stringify(version)
	}
	return download
}

func firstElement(v any) any {
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return nil
		}
		return arr[0]
	}
	return v
}

// embeddedPair extracts {title, <idKey>} from a decoded JSON object.
func embeddedPair(v any, idKey string) (string, string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", "", false
	}
	title, hasTitle := obj["title"]
	id, hasID := obj[idKey]
	if !hasTitle || !hasID {
		return "", "", false
	}
	return stringify(title), stringify(id), true
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
