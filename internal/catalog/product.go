package catalog

import (
	"catalog-service/internal/model"
)

// BuildProduct turns a create payload into a Product. Store id, timestamps
// and rating aggregates are left for the caller to assign.
func BuildProduct(body map[string]any) (*model.Product, error) {
	if err := RequireFields(body, Products.Required); err != nil {
		return nil, err
	}
	product := &model.Product{}
	if err := applyProduct(product, body, true); err != nil {
		return nil, err
	}
	return product, nil
}

// PatchProduct merges the supplied fields of an update payload onto an
// existing product. Pricing is re-evaluated whenever the payment type or the
// price is part of the payload.
func PatchProduct(product *model.Product, body map[string]any) error {
	return applyProduct(product, body, false)
}

func applyProduct(p *model.Product, body map[string]any, create bool) error {
	has := func(key string) bool {
		_, ok := body[key]
		return create || ok
	}

	if has("title") {
		p.Title = stringify(body["title"])
	}
	if has("productsId") {
		p.ProductsID = stringify(body["productsId"])
	}
	if has("thumbnail") {
		p.Thumbnail = stringify(body["thumbnail"])
	}
	if has("description") {
		p.Description = stringify(body["description"])
	}
	if has("status") {
		p.Status = stringify(body["status"])
	}
	if author := normalizeAuthor(body["author"]); author != nil {
		p.Author = author
	}
	if download := normalizeDownload(body["download"]); download != nil {
		p.Download = download
	}

	if has("tags") {
		p.Tags = NormalizeTags(body["tags"])
		if err := ValidateTags(p.Tags); err != nil {
			return err
		}
	}
	if has("frameworks") {
		p.Frameworks = NormalizeFrameworks(body["frameworks"])
	}
	if has("images") {
		p.Images = NormalizeStrings(body["images"])
	}
	if has("category") {
		p.Category = NormalizeCategory(body["category"])
		if err := ValidateCategory(p.Category); err != nil {
			return err
		}
	}
	if has("type") {
		p.Type = NormalizeType(body["type"])
		if err := ValidateType(p.Type); err != nil {
			return err
		}
	}

	if has("paymentType") {
		p.PaymentType = stringify(body["paymentType"])
	}
	if has("paymentType") || has("price") {
		var priceInput any = p.Price
		if v, ok := body["price"]; ok {
			priceInput = v
		}
		price, err := ResolvePrice(p.PaymentType, priceInput)
		if err != nil {
			return err
		}
		p.Price = price
	}

	if has("stock") {
		stock, err := ParseCount("stock", body["stock"])
		if err != nil {
			return err
		}
		p.Stock = stock
	}
	if v, ok := body["sold"]; ok {
		sold, err := ParseCount("sold", v)
		if err != nil {
			return err
		}
		p.Sold = sold
	}
	if v, ok := body["discount"]; ok {
		discount, ok := toNumber(v)
		if !ok {
			return inputError("discount", "discount must be a number")
		}
		p.Discount = discount
	}

	return validateShape(p)
}
