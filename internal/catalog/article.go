package catalog

import (
	"catalog-service/internal/model"
)

// BuildArticle turns a create payload into an Article. Store id and
// timestamps are left for the caller to assign.
func BuildArticle(body map[string]any) (*model.Article, error) {
	if err := RequireFields(body, Articles.Required); err != nil {
		return nil, err
	}
	article := &model.Article{}
	if err := applyArticle(article, body, true); err != nil {
		return nil, err
	}
	return article, nil
}

// PatchArticle merges the supplied fields of an update payload onto an
// existing article. Fields missing from the payload are left untouched.
func PatchArticle(article *model.Article, body map[string]any) error {
	return applyArticle(article, body, false)
}

func applyArticle(a *model.Article, body map[string]any, create bool) error {
	has := func(key string) bool {
		_, ok := body[key]
		return create || ok
	}

	if has("title") {
		a.Title = stringify(body["title"])
	}
	if has("articlesId") {
		a.ArticlesID = stringify(body["articlesId"])
	}
	if has("thumbnail") {
		a.Thumbnail = stringify(body["thumbnail"])
	}
	if has("description") {
		a.Description = stringify(body["description"])
	}
	if has("content") {
		a.Content = stringify(body["content"])
	}
	if has("status") {
		a.Status = stringify(body["status"])
	}
	if author := normalizeAuthor(body["author"]); author != nil {
		a.Author = author
	}

	if has("tags") {
		a.Tags = NormalizeTags(body["tags"])
		if err := ValidateTags(a.Tags); err != nil {
			return err
		}
	}
	if has("category") {
		a.Category = NormalizeCategory(body["category"])
		if err := ValidateCategory(a.Category); err != nil {
			return err
		}
	}

	return validateShape(a)
}
